package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Plex.URL = "http://plex.test:32400"
	cfg.Plex.Token = "test-token"
	cfg.Chat.AdminUserID = "admin-user"
	cfg.Gateway.Bind = "127.0.0.1:0"
	cfg.RateLimit.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithNtfyTopic points the notification mirror at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithSessionTimeout overrides the disambiguation timeout in seconds.
func WithSessionTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sessions.TimeoutSeconds = seconds
	}
}

// WithRateLimit enables throttling with the given budget.
func WithRateLimit(maxRequests, windowSeconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.MaxRequests = maxRequests
		cfg.RateLimit.WindowSeconds = windowSeconds
	}
}
