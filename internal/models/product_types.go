package models

import (
	"math"
	"time"
)

// Product is the model for the 'products' table.
// Pointers are used for nullable columns so they serialize cleanly.
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Slug        string  `json:"slug" db:"slug"`
	Description *string `json:"description,omitempty" db:"description"`

	// --- Pricing ---
	Price        float64  `json:"price" db:"price"`
	ComparePrice *float64 `json:"comparePrice,omitempty" db:"compare_price"`
	CostPrice    *float64 `json:"costPrice,omitempty" db:"cost_price"`

	// --- Inventory ---
	SKU               *string `json:"sku,omitempty" db:"sku"`
	StockQuantity     int     `json:"stockQuantity" db:"stock_quantity"`
	LowStockThreshold int     `json:"lowStockThreshold" db:"low_stock_threshold"`

	// --- Details ---
	ImageURL   *string  `json:"imageUrl,omitempty" db:"image_url"`
	Weight     *float64 `json:"weight,omitempty" db:"weight"`
	Dimensions *string  `json:"dimensions,omitempty" db:"dimensions"`
	CategoryID *int64   `json:"categoryId,omitempty" db:"category_id"`

	// --- Status ---
	IsActive   bool `json:"isActive" db:"is_active"`
	IsFeatured bool `json:"isFeatured" db:"is_featured"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Populated from the join, not a column.
	CategoryName *string `json:"categoryName,omitempty" db:"-"`
}

// InStock reports whether any units remain.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// IsLowStock reports whether the remaining stock is at or below the
// low-stock threshold (but not sold out).
func (p *Product) IsLowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}

// DiscountPercentage derives the displayed discount from compare_price.
func (p *Product) DiscountPercentage() int {
	if p.ComparePrice != nil && *p.ComparePrice > p.Price {
		return int(math.Round(((*p.ComparePrice - p.Price) / *p.ComparePrice) * 100))
	}
	return 0
}

// ProfitMargin derives the margin from cost_price, in percent.
func (p *Product) ProfitMargin() float64 {
	if p.CostPrice != nil && *p.CostPrice > 0 && p.Price > 0 {
		return math.Round(((p.Price-*p.CostPrice)/p.Price)*100*100) / 100
	}
	return 0
}
