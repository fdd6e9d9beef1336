package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Reddit API configuration
	RedditBaseURL     string
	UserAgent         string
	FetchTimeout      time.Duration
	RateLimitInterval time.Duration
	DefaultLimit      int

	// Digest configuration, disabled when DigestSchedule is empty
	DigestSchedule         string
	DigestCategories       []string
	DigestCustomSubreddits []string
	DigestScope            string
	DigestLanguage         string
	DigestListing          string
	DigestTimeFrame        string
	DigestLimit            int
	DigestSearch           string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		RedditBaseURL:     getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
		UserAgent:         getEnv("USER_AGENT", "reddit-analyzer/1.0 (topic-finder)"),
		FetchTimeout:      getDurationEnv("FETCH_TIMEOUT", 10*time.Second),
		RateLimitInterval: getDurationEnv("RATE_LIMIT_INTERVAL", 3*time.Second),
		DefaultLimit:      getIntEnv("DEFAULT_LIMIT", 25),

		DigestSchedule:         getEnv("DIGEST_SCHEDULE", ""),
		DigestCategories:       getSliceEnv("DIGEST_CATEGORIES", []string{"saas"}),
		DigestCustomSubreddits: getSliceEnv("DIGEST_CUSTOM_SUBREDDITS", nil),
		DigestScope:            getEnv("DIGEST_SCOPE", "global"),
		DigestLanguage:         getEnv("DIGEST_LANGUAGE", "en"),
		DigestListing:          getEnv("DIGEST_LISTING", "top"),
		DigestTimeFrame:        getEnv("DIGEST_TIMEFRAME", "day"),
		DigestLimit:            getIntEnv("DIGEST_LIMIT", 25),
		DigestSearch:           getEnv("DIGEST_SEARCH", ""),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DigestEnabled reports whether a digest schedule is configured
func (c *Config) DigestEnabled() bool {
	return c.DigestSchedule != ""
}

func (c *Config) validate() error {
	if c.DefaultLimit < 1 || c.DefaultLimit > 100 {
		return fmt.Errorf("DEFAULT_LIMIT must be between 1 and 100")
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if c.RateLimitInterval <= 0 {
		return fmt.Errorf("RATE_LIMIT_INTERVAL must be positive")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	if !c.DigestEnabled() {
		return nil
	}

	if _, err := cron.ParseStandard(c.DigestSchedule); err != nil {
		return fmt.Errorf("DIGEST_SCHEDULE is not a valid cron expression: %w", err)
	}

	if c.TeamsWebhookURL == "" && c.NotificationEmail == "" {
		return fmt.Errorf("at least one notification method must be configured (TEAMS_WEBHOOK_URL or NOTIFICATION_EMAIL) when DIGEST_SCHEDULE is set")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	return defaultValue
}
