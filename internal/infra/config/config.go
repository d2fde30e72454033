// internal/infra/config/config.go
package config

import (
	"os"
	"strings"
	"time"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string
	Env  string // "development" | "production"

	// CORS: the storefront origin (credentials mode, so no wildcard)
	AllowedOrigin string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string
	GCPCreds                 string
	GCSBucket                string

	// SendGrid: either the key directly, or a Secret Manager resource name
	SendGridAPIKey     string
	SendGridSecretName string
	NewsletterFrom     string

	// Newsletter storage backend: "firestore" (default) or "postgres"
	NewsletterBackend string
	PostgresHost      string
	PostgresPort      string
	PostgresUser      string
	PostgresPassword  string
	PostgresDB        string

	// Payment provider wrapper API
	PaymentBaseURL string
	PaymentAPIKey  string

	// Device-local persistence (cart/wishlist snapshots)
	LocalStorePath string

	// Sync engine debounce (clamped to something sane)
	SyncDebounce time.Duration
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "boutique-development")

	cfg := &Config{
		Port:          getenvDefault("PORT", "8080"),
		Env:           getenvDefault("APP_ENV", "development"),
		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "http://localhost:5173"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		GCSBucket:                os.Getenv("GCS_BUCKET"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		NewsletterFrom:     getenvDefault("NEWSLETTER_FROM", "hello@boutique.example.com"),

		NewsletterBackend: getenvDefault("NEWSLETTER_BACKEND", "firestore"),
		PostgresHost:      getenvDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:      getenvDefault("POSTGRES_PORT", "5432"),
		PostgresUser:      getenvDefault("POSTGRES_USER", "boutique"),
		PostgresPassword:  os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:        getenvDefault("POSTGRES_DB", "boutique"),

		PaymentBaseURL: os.Getenv("PAYMENT_BASE_URL"),
		PaymentAPIKey:  os.Getenv("PAYMENT_API_KEY"),

		LocalStorePath: getenvDefault("LOCAL_STORE_PATH", ".boutique/state.json"),

		SyncDebounce: envDuration("SYNC_DEBOUNCE", 500*time.Millisecond, 50*time.Millisecond, 10*time.Second),
	}

	return cfg
}

// IsProduction reports whether Secure cookies etc. should be enforced.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// UsePostgresNewsletter reports whether signups go to Postgres instead of
// Firestore.
func (c *Config) UsePostgresNewsletter() bool {
	return strings.EqualFold(c.NewsletterBackend, "postgres")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses key as a duration and clamps it into [min, max].
func envDuration(key string, def, min, max time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}
