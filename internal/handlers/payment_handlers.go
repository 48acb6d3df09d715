package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/su413/storefront-golang/internal/models"
	"github.com/su413/storefront-golang/internal/orders"
	"github.com/su413/storefront-golang/internal/payments"
)

//
// --- Payment Handlers ---
//

// BakongPaymentInput is the shape of the JSON body for starting a QR
// payment. order_number links the payment to a placed order so the
// verified callback can mark it paid.
type BakongPaymentInput struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	OrderNumber   string  `json:"order_number"`
}

// CreateBakongPayment is the handler for POST /v1/payment/bakong/initiate.
// It registers the payment with the gateway, fetches its QR code and
// records the pending payment in the registry.
func (h *Handlers) CreateBakongPayment(c *gin.Context) {
	var input BakongPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	created, err := h.Bakong.CreatePayment(c, input.Amount, currency, input.Description)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment gateway unavailable"})
		return
	}

	qrCode, err := h.Bakong.GenerateQR(c, created.PaymentID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Failed to generate QR code"})
		return
	}

	status := created.Status
	if status == "" {
		status = models.QRPaymentPending
	}

	payment := &models.Payment{
		PaymentID:     created.PaymentID,
		OrderNumber:   input.OrderNumber,
		Amount:        input.Amount,
		Currency:      currency,
		Description:   input.Description,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Status:        status,
		Gateway:       "bakong",
	}
	if err := h.Payments.Save(c, payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"payment_id": created.PaymentID,
		"qr_code":    qrCode,
		"status":     status,
	})
}

// GetBakongPaymentStatus is the handler for GET /v1/payment/bakong/status/:id.
// It asks the gateway for the live status and syncs the registry record.
func (h *Handlers) GetBakongPaymentStatus(c *gin.Context) {
	paymentID := c.Param("id")

	payment, err := h.Payments.Get(c, paymentID)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch payment"})
		return
	}

	status, err := h.Bakong.PaymentStatus(c, paymentID)
	if err != nil {
		// The gateway being unreachable doesn't lose the payment:
		// fall back to the last known status.
		c.JSON(http.StatusOK, gin.H{"success": true, "payment_id": paymentID, "status": payment.Status, "stale": true})
		return
	}

	if status != payment.Status {
		if payment, err = h.Payments.UpdateStatus(c, paymentID, status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update payment"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment_id": paymentID, "status": payment.Status})
}

// BakongCallback is the handler for POST /v1/payment/callback/bakong.
// The gateway signs the JSON body with HMAC-SHA256 and sends the digest
// in X-Signature. Verification happens before any state changes.
func (h *Handlers) BakongCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable request body"})
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid JSON payload"})
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" || !h.Bakong.VerifyCallback(payload, signature) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
		return
	}

	paymentID, _ := payload["payment_id"].(string)
	status, _ := payload["status"].(string)
	if paymentID == "" || status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing payment_id or status"})
		return
	}

	payment, err := h.Payments.UpdateStatus(c, paymentID, status)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update payment"})
		return
	}

	if status == models.QRPaymentCompleted && payment.OrderNumber != "" {
		if err := h.Ledger.MarkPaid(payment.OrderNumber); err != nil && !errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckoutOrderInput is the shape of the JSON body for the hosted
// checkout provider.
type CheckoutOrderInput struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// CreateCheckoutOrder is the handler for POST /v1/payment/checkout/create-order.
func (h *Handlers) CreateCheckoutOrder(c *gin.Context) {
	var input CheckoutOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	created, err := h.Checkout.CreatePayment(c, input.Amount, currency, input.Description)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment provider unavailable"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"payment_id": created.PaymentID,
		"status":     created.Status,
		"details":    created.Raw,
	})
}

// GetCheckoutOrderStatus is the handler for GET /v1/payment/checkout/status/:id.
func (h *Handlers) GetCheckoutOrderStatus(c *gin.Context) {
	status, err := h.Checkout.PaymentStatus(c, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment provider unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment_id": c.Param("id"), "status": status})
}
