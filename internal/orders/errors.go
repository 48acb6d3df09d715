package orders

import "errors"

var (
	// Order creation failures. The whole order rolls back on any of
	// these; no partial writes survive.
	ErrInvalidOrderData  = errors.New("orders: invalid order data")
	ErrProductNotFound   = errors.New("orders: product not found")
	ErrProductInactive   = errors.New("orders: product is not available")
	ErrInsufficientStock = errors.New("orders: insufficient stock")
	ErrTotalsMismatch    = errors.New("orders: totals do not match product prices")

	// Status transition failures.
	ErrOrderNotFound        = errors.New("orders: order not found")
	ErrInvalidTransition    = errors.New("orders: invalid status transition")
	ErrRejectReasonRequired = errors.New("orders: a rejection reason is required")
)
