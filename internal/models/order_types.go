package models

import "time"

// Order statuses. Terminal states have no outgoing transitions.
const (
	OrderStatusPending    = "pending"
	OrderStatusApproved   = "approved"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRejected   = "rejected"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order is the model for the 'orders' table
type Order struct {
	ID          int64  `json:"id" db:"id"`
	OrderNumber string `json:"orderNumber" db:"order_number"`

	// --- Customer (nullable user for guest checkout) ---
	UserID        *int64 `json:"userId,omitempty" db:"user_id"`
	CustomerName  string `json:"customerName" db:"customer_name"`
	CustomerEmail string `json:"customerEmail" db:"customer_email"`
	CustomerPhone string `json:"customerPhone" db:"customer_phone"`

	// --- Shipping address ---
	ShippingAddress string  `json:"shippingAddress" db:"shipping_address"`
	ShippingCity    *string `json:"shippingCity,omitempty" db:"shipping_city"`
	ShippingState   *string `json:"shippingState,omitempty" db:"shipping_state"`
	ShippingZip     *string `json:"shippingZip,omitempty" db:"shipping_zip"`
	ShippingCountry *string `json:"shippingCountry,omitempty" db:"shipping_country"`

	// --- Totals ---
	Subtotal     float64 `json:"subtotal" db:"subtotal"`
	ShippingCost float64 `json:"shippingCost" db:"shipping_cost"`
	Tax          float64 `json:"tax" db:"tax"`
	Total        float64 `json:"total" db:"total"`

	// --- Status ---
	Status        string  `json:"status" db:"status"`
	PaymentMethod *string `json:"paymentMethod,omitempty" db:"payment_method"`
	PaymentStatus string  `json:"paymentStatus" db:"payment_status"`

	// --- Notes ---
	CustomerNotes *string `json:"customerNotes,omitempty" db:"customer_notes"`
	AdminNotes    *string `json:"adminNotes,omitempty" db:"admin_notes"`

	// --- Timestamps ---
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty" db:"approved_at"`
	ShippedAt   *time.Time `json:"shippedAt,omitempty" db:"shipped_at"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty" db:"delivered_at"`

	// Populated by detail queries, not a column.
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// StatusColor maps a status to its badge color for the admin UI.
func (o *Order) StatusColor() string {
	switch o.Status {
	case OrderStatusPending:
		return "warning"
	case OrderStatusApproved:
		return "info"
	case OrderStatusProcessing:
		return "primary"
	case OrderStatusShipped, OrderStatusDelivered:
		return "success"
	case OrderStatusCancelled, OrderStatusRejected:
		return "danger"
	default:
		return "secondary"
	}
}

// OrderItem is the model for the 'order_items' table. Product fields
// are snapshots taken at purchase time so the order keeps its history
// even after the product is edited or deleted.
type OrderItem struct {
	ID        int64  `json:"id" db:"id"`
	OrderID   int64  `json:"orderId" db:"order_id"`
	ProductID *int64 `json:"productId,omitempty" db:"product_id"`

	// --- Snapshot fields ---
	ProductName  string  `json:"productName" db:"product_name"`
	ProductSKU   *string `json:"productSku,omitempty" db:"product_sku"`
	ProductImage *string `json:"productImage,omitempty" db:"product_image"`

	Price    float64 `json:"price" db:"price"`
	Quantity int     `json:"quantity" db:"quantity"`
	Subtotal float64 `json:"subtotal" db:"subtotal"`
}
