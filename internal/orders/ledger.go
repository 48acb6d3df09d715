package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/su413/storefront-golang/internal/catalog"
	"github.com/su413/storefront-golang/internal/models"
)

// Ledger creates orders and drives their status state machine.
type Ledger struct {
	DB *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{DB: db}
}

// totalsTolerance is how far the client-computed totals may drift from
// the server-side recomputation before the order is refused.
const totalsTolerance = 0.01

// mysqlDuplicateEntry is the MySQL error number for a unique-key
// violation, used to retry order number generation on collision.
const mysqlDuplicateEntry = 1062

// ItemInput is one cart line of a placement request.
type ItemInput struct {
	ProductID int64   `json:"id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}

// TotalsInput carries the client-computed cart totals. The subtotal and
// grand total are verified against authoritative product prices.
type TotalsInput struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// BillingInput carries the customer contact and shipping fields.
type BillingInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Notes    string `json:"notes"`
}

// PlaceOrderInput is the full placement request.
type PlaceOrderInput struct {
	Items         []ItemInput  `json:"items"`
	Totals        TotalsInput  `json:"totals"`
	Billing       BillingInput `json:"billing"`
	PaymentMethod string       `json:"paymentMethod"`

	// Set by the handler from the bearer token; nil for guests.
	UserID *int64 `json:"-"`
}

// lineSnapshot is an order item captured from its locked product row.
type lineSnapshot struct {
	productID int64
	name      string
	sku       sql.NullString
	image     sql.NullString
	price     float64
	quantity  int
	subtotal  float64
}

// PlaceOrder validates the cart against live stock, snapshots product
// fields into order items, decrements stock and persists the order
// header plus all items in one transaction. Any failure rolls the
// whole order back; no partial orders or stock decrements survive.
func (l *Ledger) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := validatePlacement(in); err != nil {
		return nil, err
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock every product row up front so two concurrent checkouts
	// cannot both pass a stock check only one can satisfy.
	var (
		snapshots        []lineSnapshot
		computedSubtotal float64
	)
	for _, item := range in.Items {
		var (
			snap     lineSnapshot
			isActive bool
			stock    int
		)
		err := tx.QueryRow(`
			SELECT id, name, sku, image_url, price, stock_quantity, is_active
			FROM products WHERE id = ? FOR UPDATE`, item.ProductID,
		).Scan(&snap.productID, &snap.name, &snap.sku, &snap.image, &snap.price, &stock, &isActive)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
			}
			return nil, fmt.Errorf("locking product %d: %w", item.ProductID, err)
		}

		if !isActive {
			return nil, fmt.Errorf("%w: %s", ErrProductInactive, snap.name)
		}
		if stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s has %d left, %d requested",
				ErrInsufficientStock, snap.name, stock, item.Quantity)
		}

		snap.quantity = item.Quantity
		snap.subtotal = snap.price * float64(item.Quantity)
		computedSubtotal += snap.subtotal
		snapshots = append(snapshots, snap)
	}

	if err := verifyTotals(in.Totals, computedSubtotal); err != nil {
		return nil, err
	}

	orderID, orderNumber, err := l.insertHeader(tx, in)
	if err != nil {
		return nil, err
	}

	itemQuery := `
		INSERT INTO order_items
			(order_id, product_id, product_name, product_sku, product_image, price, quantity, subtotal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, snap := range snapshots {
		_, err := tx.Exec(itemQuery,
			orderID, snap.productID, snap.name, snap.sku, snap.image,
			snap.price, snap.quantity, snap.subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("saving order item: %w", err)
		}

		if err := catalog.DecrementStock(tx, snap.productID, snap.quantity); err != nil {
			if errors.Is(err, catalog.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, snap.name)
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	order, err := l.GetOrder(orderID)
	if err != nil {
		// The order is committed; losing the read-back must not look
		// like a placement failure.
		return &models.Order{ID: orderID, OrderNumber: orderNumber}, nil
	}
	return order, nil
}

func validatePlacement(in PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidOrderData)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidOrderData)
		}
	}
	b := in.Billing
	if strings.TrimSpace(b.FullName) == "" || strings.TrimSpace(b.Email) == "" ||
		strings.TrimSpace(b.Phone) == "" || strings.TrimSpace(b.Address) == "" {
		return fmt.Errorf("%w: name, email, phone and address are required", ErrInvalidOrderData)
	}
	if in.Totals.Subtotal < 0 || in.Totals.Shipping < 0 || in.Totals.Tax < 0 || in.Totals.Total < 0 {
		return fmt.Errorf("%w: totals must be non-negative", ErrInvalidOrderData)
	}
	return nil
}

// verifyTotals checks the client-computed cart totals against the
// subtotal recomputed from authoritative product prices.
func verifyTotals(t TotalsInput, computedSubtotal float64) error {
	if math.Abs(t.Subtotal-computedSubtotal) > totalsTolerance {
		return fmt.Errorf("%w: subtotal %.2f, expected %.2f", ErrTotalsMismatch, t.Subtotal, computedSubtotal)
	}
	expectedTotal := computedSubtotal + t.Shipping + t.Tax
	if math.Abs(t.Total-expectedTotal) > totalsTolerance {
		return fmt.Errorf("%w: total %.2f, expected %.2f", ErrTotalsMismatch, t.Total, expectedTotal)
	}
	return nil
}

// insertHeader persists the order row, regenerating the order number on
// the (vanishingly rare) unique-key collision.
func (l *Ledger) insertHeader(tx *sql.Tx, in PlaceOrderInput) (int64, string, error) {
	now := time.Now()
	query := `
		INSERT INTO orders
			(order_number, user_id, customer_name, customer_email, customer_phone,
			 shipping_address, shipping_city, shipping_state, shipping_zip, shipping_country,
			 subtotal, shipping_cost, tax, total,
			 status, payment_method, payment_status, customer_notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	b := in.Billing
	for attempt := 0; attempt < 5; attempt++ {
		orderNumber := GenerateOrderNumber()
		res, err := tx.Exec(query,
			orderNumber, in.UserID, b.FullName, b.Email, b.Phone,
			b.Address, nullIfEmpty(b.City), nullIfEmpty(b.State), nullIfEmpty(b.ZipCode), nullIfEmpty(b.Country),
			in.Totals.Subtotal, in.Totals.Shipping, in.Totals.Tax, in.Totals.Total,
			models.OrderStatusPending, nullIfEmpty(in.PaymentMethod), models.PaymentStatusPending,
			nullIfEmpty(b.Notes), now, now,
		)
		if err != nil {
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
				continue
			}
			return 0, "", fmt.Errorf("creating order: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, "", err
		}
		return id, orderNumber, nil
	}
	return 0, "", fmt.Errorf("creating order: could not generate a unique order number")
}

// GenerateOrderNumber returns an opaque ORD-XXXXXXXX token. Uniqueness
// is ultimately enforced by the UNIQUE index on orders.order_number.
func GenerateOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
