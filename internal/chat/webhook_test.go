package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marquee/internal/chat"
	"marquee/internal/services"
)

func TestWebhookClientSendDirectMessage(t *testing.T) {
	var received struct {
		Kind   string `json:"kind"`
		Target string `json:"target"`
		Text   string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := chat.NewWebhookClient(server.URL, time.Second)
	if err := client.SendDirectMessage(context.Background(), "admin-user", "hello"); err != nil {
		t.Fatalf("SendDirectMessage: %v", err)
	}
	if received.Kind != "direct_message" || received.Target != "admin-user" || received.Text != "hello" {
		t.Fatalf("received = %+v", received)
	}
}

func TestWebhookClientRespond(t *testing.T) {
	var kind string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg map[string]string
		_ = json.NewDecoder(r.Body).Decode(&msg)
		kind = msg["kind"]
	}))
	defer server.Close()

	client := chat.NewWebhookClient(server.URL, time.Second)
	if err := client.Respond(context.Background(), "chan-1", "done"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if kind != "channel_reply" {
		t.Fatalf("kind = %q, want channel_reply", kind)
	}
}

func TestWebhookClientBridgeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bridge offline", http.StatusBadGateway)
	}))
	defer server.Close()

	client := chat.NewWebhookClient(server.URL, time.Second)
	err := client.SendDirectMessage(context.Background(), "admin-user", "hello")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("error = %v, want ErrExternalService", err)
	}
}

func TestNoopClient(t *testing.T) {
	var client chat.NoopClient
	if err := client.SendDirectMessage(context.Background(), "admin-user", "hello"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("direct message error = %v, want ErrConfiguration", err)
	}
	if err := client.Respond(context.Background(), "chan-1", "x"); err != nil {
		t.Fatalf("respond error = %v, want nil", err)
	}
}
