package orders

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/su413/storefront-golang/internal/models"
)

const orderColumns = `id, order_number, user_id, customer_name, customer_email, customer_phone,
		shipping_address, shipping_city, shipping_state, shipping_zip, shipping_country,
		subtotal, shipping_cost, tax, total,
		status, payment_method, payment_status, customer_notes, admin_notes,
		created_at, updated_at, approved_at, shipped_at, delivered_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingZip, &o.ShippingCountry,
		&o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.CustomerNotes, &o.AdminNotes,
		&o.CreatedAt, &o.UpdatedAt, &o.ApprovedAt, &o.ShippedAt, &o.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder fetches an order with its items.
func (l *Ledger) GetOrder(id int64) (*models.Order, error) {
	o, err := scanOrder(l.DB.QueryRow("SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("fetching order: %w", err)
	}
	if err := l.attachItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrderByNumber fetches an order with its items by order number.
func (l *Ledger) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	o, err := scanOrder(l.DB.QueryRow("SELECT "+orderColumns+" FROM orders WHERE order_number = ?", orderNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("fetching order: %w", err)
	}
	if err := l.attachItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (l *Ledger) attachItems(o *models.Order) error {
	rows, err := l.DB.Query(`
		SELECT id, order_id, product_id, product_name, product_sku, product_image, price, quantity, subtotal
		FROM order_items WHERE order_id = ?`, o.ID)
	if err != nil {
		return fmt.Errorf("fetching order items: %w", err)
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductSKU, &item.ProductImage, &item.Price, &item.Quantity, &item.Subtotal); err != nil {
			return fmt.Errorf("scanning order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

// OrderFilters narrows the admin order listing.
type OrderFilters struct {
	Status  string
	Search  string // order number or customer name/email/phone
	Page    int
	PerPage int
}

// ListOrders returns one admin page of orders (no items) plus the total
// match count.
func (l *Ledger) ListOrders(f OrderFilters) ([]models.Order, int, error) {
	where := []string{"1=1"}
	var args []interface{}

	if f.Search != "" {
		where = append(where, "(order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ? OR customer_phone LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := l.DB.QueryRow("SELECT COUNT(*) FROM orders WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	query := "SELECT " + orderColumns + " FROM orders WHERE " + whereClause +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := l.DB.Query(query, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	ordersList := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning order: %w", err)
		}
		ordersList = append(ordersList, *o)
	}
	return ordersList, total, rows.Err()
}

// ListUserOrders returns every order placed by a user, newest first.
func (l *Ledger) ListUserOrders(userID int64) ([]models.Order, error) {
	rows, err := l.DB.Query("SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("listing user orders: %w", err)
	}
	defer rows.Close()

	ordersList := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		ordersList = append(ordersList, *o)
	}
	return ordersList, rows.Err()
}

// UpdateAdminNotes overwrites the admin notes outside of a transition.
func (l *Ledger) UpdateAdminNotes(orderID int64, notes string) error {
	res, err := l.DB.Exec(
		"UPDATE orders SET admin_notes = ?, updated_at = ? WHERE id = ?",
		nullIfEmpty(notes), time.Now(), orderID,
	)
	if err != nil {
		return fmt.Errorf("updating admin notes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaid flips an order's payment status to paid. Used by the
// verified payment-gateway callback.
func (l *Ledger) MarkPaid(orderNumber string) error {
	res, err := l.DB.Exec(
		"UPDATE orders SET payment_status = ?, updated_at = ? WHERE order_number = ?",
		models.PaymentStatusPaid, time.Now(), orderNumber,
	)
	if err != nil {
		return fmt.Errorf("marking order paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
