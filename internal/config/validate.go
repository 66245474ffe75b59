package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateChat(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marquee/config.toml"
		}
		return fmt.Errorf("plex.url is required. Set PLEX_URL env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token is required. Set PLEX_TOKEN env var or edit the config file")
	}
	return nil
}

func (c *Config) validateChat() error {
	if c.Chat.AdminUserID == "" {
		return errors.New("chat.admin_user_id must be set so requests can reach the library owner")
	}
	if url := c.Chat.WebhookURL; url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("chat.webhook_url must be an http(s) URL, got %q", url)
	}
	return nil
}

func (c *Config) validateMatch() error {
	if c.Match.RelevanceFloor < 0 || c.Match.RelevanceFloor > 1 {
		return errors.New("match.relevance_floor must be between 0 and 1")
	}
	if c.Match.ConfidenceThreshold < 0 || c.Match.ConfidenceThreshold > 1 {
		return errors.New("match.confidence_threshold must be between 0 and 1")
	}
	if c.Match.ConfidenceThreshold < c.Match.RelevanceFloor {
		return errors.New("match.confidence_threshold must not be below match.relevance_floor")
	}
	if c.Match.ClosenessMargin < 0 || c.Match.ClosenessMargin > 1 {
		return errors.New("match.closeness_margin must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
