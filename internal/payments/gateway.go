package payments

import (
	"context"
	"errors"
)

var (
	ErrPaymentNotFound  = errors.New("payments: payment not found")
	ErrInvalidSignature = errors.New("payments: invalid callback signature")
)

// CreateResponse is the uniform result of creating a payment on either
// backend.
type CreateResponse struct {
	PaymentID string                 `json:"paymentId"`
	Status    string                 `json:"status"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Gateway is the uniform contract both payment backends satisfy: the
// QR gateway and the sandbox checkout API.
type Gateway interface {
	CreatePayment(ctx context.Context, amount float64, currency, description string) (*CreateResponse, error)
	PaymentStatus(ctx context.Context, paymentID string) (string, error)
}

var (
	_ Gateway = (*BakongClient)(nil)
	_ Gateway = (*CheckoutClient)(nil)
)
