package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/su413/storefront-golang/internal/catalog"
)

//
// --- Public Catalog Handlers ---
//

// GetCatalog is the handler for GET /v1/catalog. Only active products
// are shown; supports search, category and featured filters plus
// pagination.
func (h *Handlers) GetCatalog(c *gin.Context) {
	filters := catalog.ProductFilters{
		Search:     c.Query("search"),
		ActiveOnly: true,
		Featured:   c.Query("featured") == "true",
		Page:       queryInt(c, "page", 1),
		PerPage:    queryInt(c, "per_page", 20),
	}
	if categoryID, err := strconv.ParseInt(c.Query("category"), 10, 64); err == nil {
		filters.CategoryID = categoryID
	}

	products, total, err := h.Catalog.ListProducts(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     filters.Page,
		"perPage":  filters.PerPage,
	})
}

// GetProduct is the handler for GET /v1/products/:id. The parameter is
// a numeric id or a slug.
func (h *Handlers) GetProduct(c *gin.Context) {
	param := c.Param("id")

	var err error
	if id, parseErr := strconv.ParseInt(param, 10, 64); parseErr == nil {
		product, getErr := h.Catalog.GetProduct(id)
		err = getErr
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"product": product})
			return
		}
	} else {
		product, getErr := h.Catalog.GetProductBySlug(param)
		err = getErr
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"product": product})
			return
		}
	}

	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
}

// GetCategories is the handler for GET /v1/categories. Public listing,
// active categories only.
func (h *Handlers) GetCategories(c *gin.Context) {
	categories, total, err := h.Catalog.ListCategories(catalog.CategoryFilters{
		ActiveOnly: true,
		Page:       queryInt(c, "page", 1),
		PerPage:    queryInt(c, "per_page", 50),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": total})
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
