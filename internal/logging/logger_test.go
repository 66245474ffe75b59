package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("gateway listening", logging.String("bind", "127.0.0.1:0"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "marquee.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "gateway listening") {
		t.Errorf("log file missing record: %q", string(data))
	}
	if !strings.Contains(string(data), `"bind":"127.0.0.1:0"`) {
		t.Errorf("log file missing attr: %q", string(data))
	}
}

func TestWithContextAddsChatFields(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}

	ctx := services.WithUserID(context.Background(), "user-5")
	ctx = services.WithCommand(ctx, "query")
	logging.WithContext(ctx, logger).Info("handled")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "marquee.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, want := range []string{`"user_id":"user-5"`, `"command":"query"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log record missing %s: %q", want, string(data))
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
