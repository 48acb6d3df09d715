package models

import "time"

// Payment statuses reported by the QR gateway.
const (
	QRPaymentPending   = "pending"
	QRPaymentCompleted = "completed"
	QRPaymentFailed    = "failed"
	QRPaymentExpired   = "expired"
)

// Payment is the registry record for a QR-gateway payment. It lives in
// redis keyed by payment id so pending payments survive a restart.
type Payment struct {
	PaymentID     string    `json:"paymentId"`
	OrderNumber   string    `json:"orderNumber,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Status        string    `json:"status"`
	Gateway       string    `json:"gateway"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
