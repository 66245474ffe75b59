package services_test

import (
	"context"
	"testing"

	"marquee/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithUserID(ctx, "user-9")
	ctx = services.WithChannelID(ctx, "channel-3")
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithCommand(ctx, "request")

	if got, ok := services.UserIDFromContext(ctx); !ok || got != "user-9" {
		t.Errorf("UserIDFromContext = %q, %v", got, ok)
	}
	if got, ok := services.ChannelIDFromContext(ctx); !ok || got != "channel-3" {
		t.Errorf("ChannelIDFromContext = %q, %v", got, ok)
	}
	if got, ok := services.SessionIDFromContext(ctx); !ok || got != "sess-1" {
		t.Errorf("SessionIDFromContext = %q, %v", got, ok)
	}
	if got, ok := services.CommandFromContext(ctx); !ok || got != "request" {
		t.Errorf("CommandFromContext = %q, %v", got, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithUserID(context.Background(), "")
	if _, ok := services.UserIDFromContext(ctx); ok {
		t.Error("empty user id should not be stored")
	}
	if _, ok := services.UserIDFromContext(context.Background()); ok {
		t.Error("bare context should carry nothing")
	}
}
