package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/su413/storefront-golang/internal/catalog"
	"github.com/su413/storefront-golang/internal/config"
	"github.com/su413/storefront-golang/internal/database"
	"github.com/su413/storefront-golang/internal/handlers"
	"github.com/su413/storefront-golang/internal/notify"
	"github.com/su413/storefront-golang/internal/orders"
	"github.com/su413/storefront-golang/internal/payments"
	"github.com/su413/storefront-golang/internal/routes"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Redis Connection (payment registry) ---
	rdb, err := database.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	// 3. --- Notification Workers ---
	// Each placed order fans out to every channel; a failing channel
	// never blocks checkout or the other channels.
	var channels []notify.Channel
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		channels = append(channels, notify.NewTelegramChannel(cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	channels = append(channels, notify.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPSender))

	dispatcher := notify.NewDispatcher(channels...)
	dispatcher.Start(2)
	defer dispatcher.Stop()

	// 4. --- Application Setup ---
	// We inject ALL dependencies into the Handlers struct.
	app := &handlers.Handlers{
		DB:         db,
		Config:     cfg,
		Catalog:    catalog.NewStore(db),
		Ledger:     orders.NewLedger(db),
		Dispatcher: dispatcher,
		Payments:   payments.NewRegistry(rdb),
		Bakong: payments.NewBakongClient(
			cfg.BakongAPIURL, cfg.BakongMerchantID, cfg.BakongAPIKey,
			cfg.BakongSecretKey, cfg.PaymentCallbackURL,
		),
		Checkout: payments.NewCheckoutClient(cfg.CheckoutAPIURL, cfg.CheckoutClientID, cfg.CheckoutClientSecret),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	log.Printf("Starting storefront API server on %s...", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
