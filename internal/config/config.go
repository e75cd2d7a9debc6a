package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	SignatureTolerance  time.Duration

	// Timeouts de llamadas salientes (la plataforma no impone ninguno)
	ProviderTimeout time.Duration
	EmailTimeout    time.Duration

	// SMTP
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Ledger de idempotencia
	RedisAddr  string
	SQLitePath string
	LedgerTTL  time.Duration

	// Bus de eventos de integración
	UseKafka     bool
	KafkaBrokers []string

	// Blob storage (subida de assets)
	BlobAPIURL string
	BlobToken  string
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	smtpPort := 587
	if v, err := strconv.Atoi(getEnv("SMTP_PORT", "587")); err == nil {
		smtpPort = v
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		// Secretos siempre por entorno, nunca hardcodeados
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SignatureTolerance:  5 * time.Minute,

		ProviderTimeout: 10 * time.Second,
		EmailTimeout:    15 * time.Second,

		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  smtpPort,
		SMTPUser:  os.Getenv("EMAIL_USER"),
		SMTPPass:  os.Getenv("EMAIL_PASS"),
		EmailFrom: getEnv("EMAIL_FROM", "QuickAsset <"+os.Getenv("EMAIL_USER")+">"),

		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath: getEnv("SQLITE_PATH", "./quickasset_ledger.db"),
		LedgerTTL:  24 * time.Hour,

		UseKafka:     getEnv("USE_KAFKA", "false") == "true",
		KafkaBrokers: kafkaBrokers,

		BlobAPIURL: getEnv("BLOB_API_URL", "https://blob.vercel-storage.com"),
		BlobToken:  os.Getenv("BLOB_READ_WRITE_TOKEN"),
	}
}
