package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config collects every environment-driven setting in one place so
// main.go can wire dependencies without scattering os.Getenv calls.
type Config struct {
	// HTTP
	Addr       string
	CORSOrigin string
	UploadDir  string

	// UploadBaseURL is prepended to upload URLs, e.g. a CDN or absolute
	// host. Empty means the router's own /uploads static mount.
	UploadBaseURL string

	// MySQL
	DBDSN string

	// Redis (payment registry)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string

	// Bakong QR gateway
	BakongAPIURL     string
	BakongMerchantID string
	BakongAPIKey     string
	BakongSecretKey  string

	// Sandbox checkout API
	CheckoutAPIURL       string
	CheckoutClientID     string
	CheckoutClientSecret string

	// Payment callback base, e.g. https://shop.example.com/v1/payment/callback
	PaymentCallbackURL string

	// Notifications
	TelegramBotToken string
	TelegramChatID   string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPSender       string
}

// Load reads the configuration from the environment. Callers are
// expected to have run godotenv.Load() beforehand.
func Load() *Config {
	return &Config{
		Addr:          getEnv("HTTP_ADDR", ":8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		UploadDir:     getEnv("UPLOAD_DIR", "static/uploads"),
		UploadBaseURL: getEnv("UPLOAD_BASE_URL", ""),

		DBDSN: getEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/storefront?parseTime=true"),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),

		BakongAPIURL:     getEnv("BAKONG_API_URL", "https://api-bakong.nbc.gov.kh"),
		BakongMerchantID: os.Getenv("BAKONG_MERCHANT_ID"),
		BakongAPIKey:     os.Getenv("BAKONG_API_KEY"),
		BakongSecretKey:  os.Getenv("BAKONG_SECRET_KEY"),

		CheckoutAPIURL:       getEnv("CHECKOUT_API_URL", "https://api.sandbox.paypal.com"),
		CheckoutClientID:     os.Getenv("CHECKOUT_CLIENT_ID"),
		CheckoutClientSecret: os.Getenv("CHECKOUT_CLIENT_SECRET"),

		PaymentCallbackURL: getEnv("PAYMENT_CALLBACK_URL", "http://localhost:8080/v1/payment/callback"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPSender:       os.Getenv("SMTP_SENDER"),
	}
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
