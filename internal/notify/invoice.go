package notify

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/su413/storefront-golang/internal/models"
)

// RenderInvoiceTable renders the order's line items as a plain-text
// table: one row per item plus SHIPPING and TOTAL rows.
func RenderInvoiceTable(order *models.Order) string {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Name", "Price", "Quantity", "Subtotal"})
	table.SetAutoWrapText(false)

	for _, item := range order.Items {
		table.Append([]string{
			item.ProductName,
			fmt.Sprintf("%.2f", item.Price),
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("%.2f", item.Subtotal),
		})
	}
	table.Append([]string{"SHIPPING", "", "", fmt.Sprintf("%.2f", order.ShippingCost)})
	table.Append([]string{"TOTAL", "", "", fmt.Sprintf("%.2f", order.Total)})

	table.Render()
	return buf.String()
}

// customerLines formats the contact block shared by both channels.
func customerLines(order *models.Order) string {
	return fmt.Sprintf("Customer Name: %s\nEmail: %s\nPhone: %s\nAddress: %s",
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.ShippingAddress)
}
