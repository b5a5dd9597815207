package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Cart        CartConfig
	Stripe      StripeConfig
	PayPal      PayPalConfig
	PeerPayment PeerPaymentConfig
	Notify      NotifyConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string // Public URL used to build payment callback/webhook URLs
}

type DatabaseConfig struct {
	URL      string // Full database URL; takes precedence over components
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CartConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string // "sandbox" or "live"
}

// PeerPaymentConfig holds the static pay-to accounts shown for manual
// payment methods.
type PeerPaymentConfig struct {
	VenmoHandle   string
	CashAppHandle string
	ZelleAccount  string
}

type NotifyConfig struct {
	SendGridAPIKey   string
	SenderEmail      string
	TelegramBotToken string
	TelegramChatID   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			Host:    getEnv("HOST", "localhost"),
			Env:     getEnv("ENV", "development"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "gulf_float"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Cart: CartConfig{
			TTL:           getEnvAsDuration("CART_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("CART_SWEEP_INTERVAL", 15*time.Minute),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_API_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		PayPal: PayPalConfig{
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
			Environment:  getEnv("PAYPAL_ENVIRONMENT", "sandbox"),
		},
		PeerPayment: PeerPaymentConfig{
			VenmoHandle:   getEnv("VENMO_HANDLE", "@ExclusiveFloat850"),
			CashAppHandle: getEnv("CASHAPP_HANDLE", "$ExclusiveFloat"),
			ZelleAccount:  getEnv("ZELLE_ACCOUNT", "exclusivefloat850@gmail.com"),
		},
		Notify: NotifyConfig{
			SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
			SenderEmail:      getEnv("SENDER_EMAIL", "bookings@exclusivegulffloat.com"),
			TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "*")),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
