package orders

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLedger(t *testing.T) (*Ledger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLedger(db), mock
}

func keyboardOrder() PlaceOrderInput {
	return PlaceOrderInput{
		Items: []ItemInput{
			{ProductID: 7, Quantity: 2, Price: 99.99, Name: "Mechanical Keyboard"},
		},
		Totals: TotalsInput{Subtotal: 199.98, Shipping: 5.00, Tax: 0, Total: 204.98},
		Billing: BillingInput{
			FullName: "Sok Dara",
			Email:    "dara@example.com",
			Phone:    "+855123456789",
			Address:  "Street 63, Phnom Penh",
		},
		PaymentMethod: "cod",
	}
}

const productLockQuery = `SELECT id, name, sku, image_url, price, stock_quantity, is_active\s+FROM products WHERE id = \? FOR UPDATE`

func productRow(mock sqlmock.Sqlmock, price float64, stock int, active bool) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "name", "sku", "image_url", "price", "stock_quantity", "is_active"}).
		AddRow(7, "Mechanical Keyboard", "KB-01", "kb.png", price, stock, active)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectBegin()
	mock.ExpectQuery(productLockQuery).
		WithArgs(int64(7)).
		WillReturnRows(productRow(mock, 99.99, 50, true))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(int64(42), int64(7), "Mechanical Keyboard", "KB-01", "kb.png", 99.99, 2, 199.98).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Stock goes from 50 to 48: decremented by exactly the ordered quantity.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock_quantity = stock_quantity - ?")).
		WithArgs(2, sqlmock.AnyArg(), int64(7), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := ledger.PlaceOrder(context.Background(), keyboardOrder())
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.ID)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"), "order number: %s", order.OrderNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectBegin()
	mock.ExpectQuery(productLockQuery).
		WithArgs(int64(7)).
		WillReturnRows(productRow(mock, 99.99, 1, true))
	mock.ExpectRollback()

	_, err := ledger.PlaceOrder(context.Background(), keyboardOrder())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	// No order header, no items, no stock update made it to the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectBegin()
	mock.ExpectQuery(productLockQuery).
		WithArgs(int64(7)).
		WillReturnRows(productRow(mock, 99.99, 50, false))
	mock.ExpectRollback()

	_, err := ledger.PlaceOrder(context.Background(), keyboardOrder())
	assert.ErrorIs(t, err, ErrProductInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectBegin()
	mock.ExpectQuery(productLockQuery).
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := ledger.PlaceOrder(context.Background(), keyboardOrder())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderTotalsMismatch(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectBegin()
	mock.ExpectQuery(productLockQuery).
		WithArgs(int64(7)).
		WillReturnRows(productRow(mock, 99.99, 50, true))
	mock.ExpectRollback()

	// The client claims a subtotal below what the authoritative prices
	// add up to (e.g. a stale or tampered cart).
	input := keyboardOrder()
	input.Totals.Subtotal = 150.00
	input.Totals.Total = 155.00

	_, err := ledger.PlaceOrder(context.Background(), input)
	assert.ErrorIs(t, err, ErrTotalsMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderValidation(t *testing.T) {
	ledger, mock := newMockLedger(t)

	tests := []struct {
		name   string
		mutate func(*PlaceOrderInput)
	}{
		{"empty cart", func(in *PlaceOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 }},
		{"missing email", func(in *PlaceOrderInput) { in.Billing.Email = "" }},
		{"missing address", func(in *PlaceOrderInput) { in.Billing.Address = "  " }},
		{"negative shipping", func(in *PlaceOrderInput) { in.Totals.Shipping = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := keyboardOrder()
			tc.mutate(&input)

			_, err := ledger.PlaceOrder(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidOrderData)
		})
	}

	// Validation failures never open a transaction.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()
		assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, number)
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}
