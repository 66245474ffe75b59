package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marquee/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func baseConfig(t *testing.T) string {
	t.Helper()
	return writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "plex-token"

[chat]
admin_user_id = "admin-1"
`)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := baseConfig(t)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatalf("expected config at %s to exist", resolved)
	}
	if cfg.Search.MaxResults != 10 {
		t.Errorf("search.max_results default = %d, want 10", cfg.Search.MaxResults)
	}
	if cfg.Match.MaxOffers != 5 {
		t.Errorf("match.max_offers default = %d, want 5", cfg.Match.MaxOffers)
	}
	if cfg.Sessions.TimeoutSeconds != 60 {
		t.Errorf("sessions.timeout_seconds default = %d, want 60", cfg.Sessions.TimeoutSeconds)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("logging.format default = %q, want console", cfg.Logging.Format)
	}
	if cfg.Plex.LibrarySection != "Movies" {
		t.Errorf("plex.library_section default = %q, want Movies", cfg.Plex.LibrarySection)
	}
}

func TestLoadTrimsPlexURL(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400/"
token = "plex-token"

[chat]
admin_user_id = "admin-1"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasSuffix(cfg.Plex.URL, "/") {
		t.Errorf("plex url not trimmed: %q", cfg.Plex.URL)
	}
}

func TestLoadRejectsMissingAdmin(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "plex-token"
`)
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for missing chat.admin_user_id")
	}
	if !strings.Contains(err.Error(), "chat.admin_user_id") {
		t.Errorf("error should name the field, got %v", err)
	}
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "plex-token"

[chat]
admin_user_id = "admin-1"

[match]
relevance_floor = 0.9
confidence_threshold = 0.4
`)
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for threshold below floor")
	}
}

func TestLoadRejectsNonHTTPWebhook(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "plex-token"

[chat]
admin_user_id = "admin-1"
webhook_url = "ftp://bridge.local/outbound"
`)
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for non-http webhook url")
	}
	if !strings.Contains(err.Error(), "chat.webhook_url") {
		t.Errorf("error should name the field, got %v", err)
	}
}

func TestPlexEnvFallback(t *testing.T) {
	t.Setenv("PLEX_URL", "http://env.plex:32400")
	t.Setenv("PLEX_TOKEN", "env-token")
	path := writeConfig(t, `
[chat]
admin_user_id = "admin-1"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plex.URL != "http://env.plex:32400" {
		t.Errorf("plex.url = %q, want env fallback", cfg.Plex.URL)
	}
	if cfg.Plex.Token != "env-token" {
		t.Errorf("plex.token = %q, want env fallback", cfg.Plex.Token)
	}
}

func TestJournalAndLockPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/marquee-test"
	if got := cfg.JournalPath(); got != filepath.Join("/tmp/marquee-test", "requests.db") {
		t.Errorf("JournalPath = %q", got)
	}
	if got := cfg.LockPath(); got != filepath.Join("/tmp/marquee-test", "marquee.lock") {
		t.Errorf("LockPath = %q", got)
	}
}
