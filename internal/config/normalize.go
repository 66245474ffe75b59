package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlex()
	c.normalizeChat()
	c.normalizeGateway()
	c.normalizeBounds()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlex() {
	if c.Plex.URL == "" {
		if value, ok := os.LookupEnv("PLEX_URL"); ok {
			c.Plex.URL = value
		}
	}
	if c.Plex.Token == "" {
		if value, ok := os.LookupEnv("PLEX_TOKEN"); ok {
			c.Plex.Token = value
		}
	}
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if strings.TrimSpace(c.Plex.LibrarySection) == "" {
		c.Plex.LibrarySection = defaultPlexLibrarySection
	}
	if c.Plex.RequestTimeout <= 0 {
		c.Plex.RequestTimeout = defaultPlexRequestTimeout
	}
}

func (c *Config) normalizeChat() {
	if c.Chat.AdminUserID == "" {
		if value, ok := os.LookupEnv("MARQUEE_ADMIN_USER_ID"); ok {
			c.Chat.AdminUserID = value
		}
	}
	c.Chat.AdminUserID = strings.TrimSpace(c.Chat.AdminUserID)
	c.Chat.WebhookURL = strings.TrimRight(strings.TrimSpace(c.Chat.WebhookURL), "/")
	if c.Chat.RequestTimeout <= 0 {
		c.Chat.RequestTimeout = defaultChatRequestTimeout
	}
}

func (c *Config) normalizeGateway() {
	c.Gateway.Bind = strings.TrimSpace(c.Gateway.Bind)
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = defaultGatewayBind
	}
	if c.Gateway.Token == "" {
		if value, ok := os.LookupEnv("MARQUEE_GATEWAY_TOKEN"); ok {
			c.Gateway.Token = value
		}
	}
	c.Gateway.Token = strings.TrimSpace(c.Gateway.Token)
}

func (c *Config) normalizeBounds() {
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultSearchMaxResults
	}
	if c.Match.MaxOffers <= 0 {
		c.Match.MaxOffers = defaultMaxOffers
	}
	if c.Sessions.TimeoutSeconds <= 0 {
		c.Sessions.TimeoutSeconds = defaultSessionTimeout
	}
	if c.RateLimit.MaxRequests <= 0 {
		c.RateLimit.MaxRequests = defaultRateLimitMax
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = defaultRateLimitWindow
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
