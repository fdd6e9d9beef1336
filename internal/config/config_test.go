package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDDIT_BASE_URL", "USER_AGENT", "FETCH_TIMEOUT", "RATE_LIMIT_INTERVAL", "DEFAULT_LIMIT", "DIGEST_SCHEDULE", "NOTIFICATION_EMAIL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://www.reddit.com", cfg.RedditBaseURL)
	assert.Equal(t, "reddit-analyzer/1.0 (topic-finder)", cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3*time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.False(t, cfg.DigestEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_INTERVAL", "1500ms")
	t.Setenv("DIGEST_SCHEDULE", "0 9 * * MON")
	t.Setenv("DIGEST_CATEGORIES", "saas, marketing,")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://example.com/hook")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.RateLimitInterval)
	assert.True(t, cfg.DigestEnabled())
	assert.Equal(t, []string{"saas", "marketing"}, cfg.DigestCategories)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("DEBUG", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.Debug)
}

func TestConfig_validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DefaultLimit:      25,
			FetchTimeout:      10 * time.Second,
			RateLimitInterval: 3 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "Defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "Limit out of range",
			mutate:  func(c *Config) { c.DefaultLimit = 500 },
			wantErr: "DEFAULT_LIMIT",
		},
		{
			name:    "Zero timeout",
			mutate:  func(c *Config) { c.FetchTimeout = 0 },
			wantErr: "FETCH_TIMEOUT",
		},
		{
			name:    "Zero rate limit interval",
			mutate:  func(c *Config) { c.RateLimitInterval = 0 },
			wantErr: "RATE_LIMIT_INTERVAL",
		},
		{
			name:    "Negative rate limit interval",
			mutate:  func(c *Config) { c.RateLimitInterval = -time.Second },
			wantErr: "RATE_LIMIT_INTERVAL",
		},
		{
			name:    "Email without SMTP",
			mutate:  func(c *Config) { c.NotificationEmail = "team@example.com" },
			wantErr: "SMTP configuration",
		},
		{
			name: "Digest without notifications",
			mutate: func(c *Config) {
				c.DigestSchedule = "0 9 * * *"
			},
			wantErr: "notification method",
		},
		{
			name: "Digest with bad schedule",
			mutate: func(c *Config) {
				c.DigestSchedule = "every monday"
				c.TeamsWebhookURL = "https://example.com/hook"
			},
			wantErr: "DIGEST_SCHEDULE",
		},
		{
			name: "Digest with Teams",
			mutate: func(c *Config) {
				c.DigestSchedule = "@daily"
				c.TeamsWebhookURL = "https://example.com/hook"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
