package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/su413/storefront-golang/internal/models"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:              42,
		OrderNumber:     "ORD-AB12CD34",
		CustomerName:    "Sok Dara",
		CustomerEmail:   "dara@example.com",
		CustomerPhone:   "+855123456789",
		ShippingAddress: "Street 63, Phnom Penh",
		Subtotal:        199.98,
		ShippingCost:    5.00,
		Total:           204.98,
		Items: []models.OrderItem{
			{ProductName: "Mechanical Keyboard", Price: 99.99, Quantity: 2, Subtotal: 199.98},
		},
	}
}

func TestRenderInvoiceTable(t *testing.T) {
	rendered := RenderInvoiceTable(sampleOrder())

	assert.Contains(t, rendered, "Mechanical Keyboard")
	assert.Contains(t, rendered, "99.99")
	assert.Contains(t, rendered, "199.98")
	assert.Contains(t, rendered, "SHIPPING")
	assert.Contains(t, rendered, "5.00")
	assert.Contains(t, rendered, "TOTAL")
	assert.Contains(t, rendered, "204.98")
}

func TestRenderInvoiceTableEmptyOrder(t *testing.T) {
	order := sampleOrder()
	order.Items = nil

	rendered := RenderInvoiceTable(order)

	// Still renders the summary rows.
	assert.Contains(t, rendered, "SHIPPING")
	assert.Contains(t, rendered, "TOTAL")
}
