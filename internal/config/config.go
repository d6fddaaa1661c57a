// Package config loads the engine's environment-driven configuration.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultTickIntervalMS     = 3000
	minTickIntervalMS         = 3000
	defaultStaleThresholdMS   = 3_600_000
	defaultWebhookBase        = "http://localhost:8080"
	defaultSendGridFromName   = "Reminders"
)

// Config holds every tunable the engine reads at startup.
type Config struct {
	// UsePolling selects the self-driven ticker loop (true) or the
	// externally-triggered webhook mode (false).
	UsePolling bool

	TickInterval    time.Duration
	StaleThreshold  time.Duration

	DatabasePath string

	// SigningKeyCurrent and SigningKeyNext verify inbound webhook
	// signatures; both are accepted so the sender can rotate keys without
	// a coordinated flip.
	SigningKeyCurrent string
	SigningKeyNext    string

	WebhookBase string

	CallbackAPIKey string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from the environment, optionally preloaded from
// a .env file. A missing .env file is not an error in production.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	cfg := &Config{
		UsePolling:        getEnvBool("USE_POLLING", true),
		TickInterval:      getEnvDurationMS("TICK_INTERVAL_MS", defaultTickIntervalMS),
		StaleThreshold:    getEnvDurationMS("STALE_THRESHOLD_MS", defaultStaleThresholdMS),
		DatabasePath:      getEnvOrDefault("DATABASE_PATH", "./remindo.db"),
		SigningKeyCurrent: os.Getenv("WEBHOOK_SIGNING_KEY_CURRENT"),
		SigningKeyNext:    os.Getenv("WEBHOOK_SIGNING_KEY_NEXT"),
		WebhookBase:       getEnvOrDefault("WEBHOOK_BASE_URL", defaultWebhookBase),
		CallbackAPIKey:    os.Getenv("CALLBACK_API_KEY"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:  getEnvOrDefault("SENDGRID_FROM_NAME", defaultSendGridFromName),
	}

	if cfg.TickInterval < minTickIntervalMS*time.Millisecond {
		cfg.TickInterval = minTickIntervalMS * time.Millisecond
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDurationMS(key string, defaultMS int) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(defaultMS) * time.Millisecond
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return time.Duration(defaultMS) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
