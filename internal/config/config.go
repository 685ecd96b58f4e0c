// Package config manages SkillsHub entitlement-core configuration.
//
// Configuration sources:
//   - .env / environment: endpoints, credentials, and paths
//   - data directory: persisted session and bookmark state (JSON files)
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Well-known storage keys. The persisted session and bookmark files are named
// after these keys so state written by other frontends stays interoperable.
const (
	SessionStorageKey   = "skillshub-session"
	BookmarksStorageKey = "skillshub-bookmarks"
)

// Config holds all entitlement core configuration.
type Config struct {
	// Data directory for persisted session and bookmark state
	DataPath string

	// Billing collaborator
	BillingAPIURL   string
	BillingAPIToken string
	BillingTimeout  time.Duration

	// Stripe (used when the billing collaborator is Stripe directly)
	StripeSecretKey string

	// Checkout redirect targets
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, loading a .env file first
// when present. Missing values fall back to defaults; only structurally
// invalid values are reported.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	cfg := &Config{
		DataPath:           getEnv("SKILLSHUB_DATA_PATH", defaultDataPath()),
		BillingAPIURL:      getEnv("SKILLSHUB_BILLING_URL", ""),
		BillingAPIToken:    getEnv("SKILLSHUB_BILLING_TOKEN", ""),
		BillingTimeout:     getDurationEnv("SKILLSHUB_BILLING_TIMEOUT", 10*time.Second),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		CheckoutSuccessURL: getEnv("SKILLSHUB_CHECKOUT_SUCCESS_URL", "https://skillshub.app/success"),
		CheckoutCancelURL:  getEnv("SKILLSHUB_CHECKOUT_CANCEL_URL", "https://skillshub.app/pricing"),
		LogLevel:           getEnv("SKILLSHUB_LOG_LEVEL", "info"),
		LogFormat:          getEnv("SKILLSHUB_LOG_FORMAT", "auto"),
	}

	return cfg
}

// SessionFilePath returns the absolute path of the persisted session file.
func (c *Config) SessionFilePath() string {
	return filepath.Join(c.DataPath, SessionStorageKey+".json")
}

// BookmarksFilePath returns the absolute path of the persisted bookmarks file.
func (c *Config) BookmarksFilePath() string {
	return filepath.Join(c.DataPath, BookmarksStorageKey+".json")
}

func defaultDataPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".skillshub")
	}
	return "/var/lib/skillshub"
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid duration in environment, using default")
		return fallback
	}
	return d
}
