package services_test

import (
	"errors"
	"strings"
	"testing"

	"marquee/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrExternalService, "plex", "search", "query failed", cause)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("wrapped error should match marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error should match cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "plex: search: query failed") {
		t.Errorf("detail missing from %q", err.Error())
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("nil marker should default to transient, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Errorf("empty detail should fall back, got %q", err.Error())
	}
}

func TestClassifyReply(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.ReplyClass
	}{
		{"validation", services.Wrap(services.ErrValidation, "title", "normalize", "empty", nil), services.ReplyUserError},
		{"not found", services.ErrNotFound, services.ReplyUserError},
		{"timeout", services.Wrap(services.ErrTimeout, "plex", "search", "", nil), services.ReplyRetryLater},
		{"external", services.ErrExternalService, services.ReplyRetryLater},
		{"unknown", errors.New("boom"), services.ReplyInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ClassifyReply(tc.err); got != tc.want {
				t.Errorf("ClassifyReply(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}
