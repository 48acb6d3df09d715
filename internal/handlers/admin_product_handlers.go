package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/su413/storefront-golang/internal/catalog"
)

//
// --- Admin Product Handlers ---
//

// ProductJSONInput is the shape of the JSON body for creating or
// updating a product.
type ProductJSONInput struct {
	Name              string   `json:"name" binding:"required"`
	Description       *string  `json:"description"`
	Price             float64  `json:"price" binding:"required,gt=0"`
	ComparePrice      *float64 `json:"compare_price"`
	CostPrice         *float64 `json:"cost_price"`
	SKU               *string  `json:"sku"`
	StockQuantity     int      `json:"stock_quantity" binding:"gte=0"`
	LowStockThreshold int      `json:"low_stock_threshold"`
	ImageURL          *string  `json:"image_url"`
	Weight            *float64 `json:"weight"`
	Dimensions        *string  `json:"dimensions"`
	CategoryID        *int64   `json:"category_id"`
	IsActive          *bool    `json:"is_active"`
	IsFeatured        bool     `json:"is_featured"`
}

func (in ProductJSONInput) toCatalogInput() catalog.ProductInput {
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	threshold := in.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return catalog.ProductInput{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		ComparePrice:      in.ComparePrice,
		CostPrice:         in.CostPrice,
		SKU:               in.SKU,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: threshold,
		ImageURL:          in.ImageURL,
		Weight:            in.Weight,
		Dimensions:        in.Dimensions,
		CategoryID:        in.CategoryID,
		IsActive:          isActive,
		IsFeatured:        in.IsFeatured,
	}
}

// AdminListProducts is the handler for GET /v1/admin/products. Unlike
// the storefront catalog it also returns inactive products and the
// stock-status buckets.
func (h *Handlers) AdminListProducts(c *gin.Context) {
	filters := catalog.ProductFilters{
		Search:     c.Query("search"),
		CategoryID: int64(queryInt(c, "category", 0)),
		Status:     c.Query("status"),
		Page:       queryInt(c, "page", 1),
		PerPage:    queryInt(c, "per_page", 20),
	}

	products, total, err := h.Catalog.ListProducts(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
}

// AdminGetProduct is the handler for GET /v1/admin/products/:id.
func (h *Handlers) AdminGetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Catalog.GetProduct(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct is the handler for POST /v1/admin/products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductJSONInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.CreateProduct(input.toCatalogInput())
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateSKU) {
			c.JSON(http.StatusConflict, gin.H{"error": "A product with this SKU already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var input ProductJSONInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.UpdateProduct(id, input.toCatalogInput())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, catalog.ErrDuplicateSKU):
			c.JSON(http.StatusConflict, gin.H{"error": "A product with this SKU already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.Catalog.DeleteProduct(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ToggleProductActive is the handler for POST /v1/admin/products/:id/toggle-active.
func (h *Handlers) ToggleProductActive(c *gin.Context) {
	h.toggleProduct(c, h.Catalog.ToggleProductActive, "is_active")
}

// ToggleProductFeatured is the handler for POST /v1/admin/products/:id/toggle-featured.
func (h *Handlers) ToggleProductFeatured(c *gin.Context) {
	h.toggleProduct(c, h.Catalog.ToggleProductFeatured, "is_featured")
}

func (h *Handlers) toggleProduct(c *gin.Context, toggle func(int64) (bool, error), field string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	value, err := toggle(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{field: value})
}
