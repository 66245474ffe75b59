package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marquee/internal/logging"
)

const userAgent = "Marquee/0.1.0"

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

// ntfyMirror pushes a copy of each admin notification to an ntfy topic.
// Delivery is best-effort; the direct message remains the primary channel.
type ntfyMirror struct {
	endpoint string
	client   *http.Client
}

func newNtfyMirror(topic string, timeout time.Duration) *ntfyMirror {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyMirror{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

func (n *ntfyMirror) send(ctx context.Context, logger *slog.Logger, data payload) {
	if n == nil || n.client == nil {
		return
	}
	if err := n.post(ctx, data); err != nil {
		logger.Warn("ntfy mirror failed", logging.Error(err))
	}
}

func (n *ntfyMirror) post(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
