package catalog

import (
	"fmt"

	"github.com/su413/storefront-golang/internal/models"
)

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalProducts    int `json:"totalProducts"`
	ActiveProducts   int `json:"activeProducts"`
	LowStockProducts int `json:"lowStockProducts"`
	OutOfStock       int `json:"outOfStock"`

	TotalCategories  int `json:"totalCategories"`
	ActiveCategories int `json:"activeCategories"`

	TotalOrders    int `json:"totalOrders"`
	PendingOrders  int `json:"pendingOrders"`
	ApprovedOrders int `json:"approvedOrders"`
	ShippedOrders  int `json:"shippedOrders"`

	RecentProducts []models.Product `json:"recentProducts"`
	RecentOrders   []models.Order   `json:"recentOrders"`
}

// GetDashboardStats gathers product, category and order counts plus the
// five most recent products and orders.
func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := s.DB.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM products WHERE stock_quantity > 0 AND stock_quantity <= low_stock_threshold),
			(SELECT COUNT(*) FROM products WHERE stock_quantity = 0),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM categories WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
			(SELECT COUNT(*) FROM orders WHERE status = 'approved'),
			(SELECT COUNT(*) FROM orders WHERE status = 'shipped')`,
	).Scan(
		&stats.TotalProducts, &stats.ActiveProducts, &stats.LowStockProducts, &stats.OutOfStock,
		&stats.TotalCategories, &stats.ActiveCategories,
		&stats.TotalOrders, &stats.PendingOrders, &stats.ApprovedOrders, &stats.ShippedOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("gathering dashboard counters: %w", err)
	}

	recentProducts, _, err := s.ListProducts(ProductFilters{Page: 1, PerPage: 5})
	if err != nil {
		return nil, err
	}
	stats.RecentProducts = recentProducts

	rows, err := s.DB.Query(`
		SELECT id, order_number, customer_name, total, status, payment_status, created_at
		FROM orders ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("listing recent orders: %w", err)
	}
	defer rows.Close()

	stats.RecentOrders = []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.Total,
			&o.Status, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, err
		}
		stats.RecentOrders = append(stats.RecentOrders, o)
	}
	return stats, rows.Err()
}
