package ratelimit_test

import (
	"testing"

	"marquee/internal/config"
	"marquee/internal/ratelimit"
)

func TestDisabledLimiterAlwaysAllows(t *testing.T) {
	limiter := ratelimit.New(config.RateLimit{Enabled: false})
	for i := 0; i < 100; i++ {
		if !limiter.Allow("user-1") {
			t.Fatalf("disabled limiter denied call %d", i)
		}
	}
}

func TestLimiterEnforcesBudget(t *testing.T) {
	limiter := ratelimit.New(config.RateLimit{Enabled: true, MaxRequests: 3, WindowSeconds: 60})
	for i := 0; i < 3; i++ {
		if !limiter.Allow("user-1") {
			t.Fatalf("call %d denied within budget", i)
		}
	}
	if limiter.Allow("user-1") {
		t.Error("call over budget should be denied")
	}
}

func TestLimiterIsolatesUsers(t *testing.T) {
	limiter := ratelimit.New(config.RateLimit{Enabled: true, MaxRequests: 1, WindowSeconds: 60})
	if !limiter.Allow("user-1") {
		t.Fatal("first user denied")
	}
	if !limiter.Allow("user-2") {
		t.Error("second user should have an independent budget")
	}
	if limiter.Allow("user-1") {
		t.Error("first user should be over budget")
	}
}
