package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marquee/internal/services"
)

const webhookUserAgent = "Marquee/0.1.0"

// outboundMessage is the wire form the bridge webhook accepts.
type outboundMessage struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Text   string `json:"text"`
}

// WebhookClient delivers outbound messages to a chat bridge over a single
// webhook endpoint. The bridge fans them out to the actual platform.
type WebhookClient struct {
	url    string
	client *http.Client
}

// NewWebhookClient builds a client posting to the given webhook URL.
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{
		url:    strings.TrimRight(strings.TrimSpace(url), "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (c *WebhookClient) SendDirectMessage(ctx context.Context, userID, text string) error {
	return c.post(ctx, outboundMessage{Kind: "direct_message", Target: userID, Text: text})
}

func (c *WebhookClient) Respond(ctx context.Context, channelID, text string) error {
	return c.post(ctx, outboundMessage{Kind: "channel_reply", Target: channelID, Text: text})
}

func (c *WebhookClient) post(ctx context.Context, msg outboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "chat", "webhook", "post outbound message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrExternalService, "chat", "webhook",
			fmt.Sprintf("bridge returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}
	return nil
}

// NoopClient drops every outbound message. Used when no bridge webhook is
// configured; the ntfy mirror then carries owner notifications alone.
type NoopClient struct{}

func (NoopClient) SendDirectMessage(context.Context, string, string) error {
	return services.Wrap(services.ErrConfiguration, "chat", "webhook", "no bridge webhook configured", nil)
}

func (NoopClient) Respond(context.Context, string, string) error {
	return nil
}
