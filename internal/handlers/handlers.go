package handlers

import (
	"database/sql"

	"github.com/su413/storefront-golang/internal/catalog"
	"github.com/su413/storefront-golang/internal/config"
	"github.com/su413/storefront-golang/internal/notify"
	"github.com/su413/storefront-golang/internal/orders"
	"github.com/su413/storefront-golang/internal/payments"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB         *sql.DB
	Config     *config.Config
	Catalog    *catalog.Store
	Ledger     *orders.Ledger
	Dispatcher *notify.Dispatcher
	Payments   *payments.Registry
	Bakong     *payments.BakongClient
	Checkout   *payments.CheckoutClient
}
