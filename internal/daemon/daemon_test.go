package daemon_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"marquee/internal/daemon"
	"marquee/internal/logging"
	"marquee/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	status := d.Status()
	if !status.Running {
		t.Fatal("status should report running")
	}
	if status.GatewayAddr == "" || status.GatewayAddr == "127.0.0.1:0" {
		t.Fatalf("gateway addr = %q, want bound port", status.GatewayAddr)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/v1/healthz", status.GatewayAddr))
	if err != nil {
		t.Fatalf("healthz request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("status should report stopped")
	}
}

func TestDaemonSecondInstanceBlocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New (second): %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("second instance must not acquire the lock")
	}

	first.Stop()

	// Lock is free again after the first instance stops.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := second.Start(ctx); err == nil {
			second.Stop()
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("lock was not released after Stop")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestDaemonStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("second Start on a running daemon must fail")
	}
	d.Stop()
}
