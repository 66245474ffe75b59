package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for process-local state.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Plex contains connection settings for the Plex media server.
type Plex struct {
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	LibrarySection string `toml:"library_section"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Chat identifies the administrator on the chat platform and the outbound
// webhook the bridge listens on. Without a webhook URL outbound messages are
// dropped and only the ntfy mirror reaches the owner.
type Chat struct {
	AdminUserID    string `toml:"admin_user_id"`
	WebhookURL     string `toml:"webhook_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Gateway contains the HTTP ingress settings for chat platform callbacks.
type Gateway struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"`
}

// Search bounds the library search call.
type Search struct {
	MaxResults int `toml:"max_results"`
}

// Match contains the ranker tuning constants.
type Match struct {
	RelevanceFloor      float64 `toml:"relevance_floor"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	ClosenessMargin     float64 `toml:"closeness_margin"`
	MaxOffers           int     `toml:"max_offers"`
}

// Sessions contains disambiguation session settings.
type Sessions struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// RateLimit contains per-user command throttling settings.
type RateLimit struct {
	Enabled       bool `toml:"enabled"`
	MaxRequests   int  `toml:"max_requests"`
	WindowSeconds int  `toml:"window_seconds"`
}

// Notifications contains administrator notification settings.
type Notifications struct {
	NtfyTopic        string `toml:"ntfy_topic"`
	RequestTimeout   int    `toml:"request_timeout"`
	ForwardUnmatched bool   `toml:"forward_unmatched"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Marquee.
//
// Configuration sections by subsystem:
//   - Paths: process-local data and log directories
//   - Plex: media server connection and library section
//   - Chat: administrator identity on the chat platform
//   - Gateway: HTTP ingress bind address and bearer token
//   - Search: library search bounds
//   - Match: ranker thresholds and offer cap
//   - Sessions: disambiguation timeout
//   - RateLimit: per-user command throttling
//   - Notifications: ntfy mirror and unmatched-request forwarding
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Plex          Plex          `toml:"plex"`
	Chat          Chat          `toml:"chat"`
	Gateway       Gateway       `toml:"gateway"`
	Search        Search        `toml:"search"`
	Match         Match         `toml:"match"`
	Sessions      Sessions      `toml:"sessions"`
	RateLimit     RateLimit     `toml:"ratelimit"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marquee/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("marquee.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JournalPath returns the location of the request journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.DataDir, "requests.db")
}

// LockPath returns the location of the single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "marquee.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
