package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marquee/internal/chat"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/request"
)

// Router delivers request notifications to the configured administrator via
// direct message, optionally mirroring each notification to an ntfy topic.
type Router struct {
	client      chat.Client
	adminUserID string
	mirror      *ntfyMirror
	logger      *slog.Logger
}

// NewRouter builds the notification router from config. The ntfy mirror is a
// no-op when no topic is configured.
func NewRouter(cfg *config.Config, client chat.Client, logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Router{
		client:      client,
		adminUserID: cfg.Chat.AdminUserID,
		mirror:      newNtfyMirror(cfg.Notifications.NtfyTopic, time.Duration(cfg.Notifications.RequestTimeout)*time.Second),
		logger:      logger,
	}
}

// Deliver sends the request to the administrator and reports the outcome. A
// failed delivery degrades the record; it never invalidates the request.
func (r *Router) Deliver(ctx context.Context, req request.Request) request.Record {
	message := formatRequest(req)
	record := request.Record{Request: req, Delivered: true}

	if err := r.client.SendDirectMessage(ctx, r.adminUserID, message); err != nil {
		record.Delivered = false
		record.Reason = err.Error()
		r.logger.Warn("admin notification undeliverable",
			logging.String(logging.FieldRequestID, req.ID),
			logging.Error(err))
	}

	r.mirror.send(ctx, r.logger, payload{
		title:   "Marquee - Movie Request",
		message: fmt.Sprintf("%s requested %s", req.RequesterUserID, req.Candidate.Label()),
		tags:    []string{"marquee", "request"},
	})
	return record
}

// DeliverUnmatched notifies the administrator about a request that matched
// nothing in the library, so the raw title still reaches the owner.
func (r *Router) DeliverUnmatched(ctx context.Context, requesterUserID, rawTitle string) error {
	message := fmt.Sprintf("**Movie Request** from %s: **%s** (not in library)", requesterUserID, strings.TrimSpace(rawTitle))
	err := r.client.SendDirectMessage(ctx, r.adminUserID, message)
	if err != nil {
		r.logger.Warn("unmatched request notification undeliverable",
			logging.String(logging.FieldUserID, requesterUserID),
			logging.Error(err))
	}

	r.mirror.send(ctx, r.logger, payload{
		title:    "Marquee - Unmatched Request",
		message:  fmt.Sprintf("%s requested %q (no library match)", requesterUserID, strings.TrimSpace(rawTitle)),
		tags:     []string{"marquee", "request", "unmatched"},
		priority: "low",
	})
	return err
}

// Test sends a probe notification so operators can verify the wiring.
func (r *Router) Test(ctx context.Context) error {
	if err := r.client.SendDirectMessage(ctx, r.adminUserID, "Marquee notification test"); err != nil {
		return fmt.Errorf("send test direct message: %w", err)
	}
	r.mirror.send(ctx, r.logger, payload{
		title:    "Marquee - Test",
		message:  "Notification system test",
		tags:     []string{"marquee", "test"},
		priority: "low",
	})
	return nil
}

func formatRequest(req request.Request) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "**Movie Request** from %s:\n**%s**", req.RequesterUserID, req.Candidate.Label())
	if summary := strings.TrimSpace(req.Candidate.Summary); summary != "" {
		builder.WriteString("\n")
		builder.WriteString(summary)
	}
	if req.Candidate.Available {
		builder.WriteString("\nAlready available in the library.")
	}
	return builder.String()
}
