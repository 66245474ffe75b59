package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"marquee/internal/library"
	"marquee/internal/logging"
)

// Request is one accepted movie request. Immutable once created; exactly one
// Request exists per user-facing resolution.
type Request struct {
	ID              string
	RequesterUserID string
	Candidate       library.Candidate
	CreatedAt       time.Time
}

// Record reports the delivery outcome for a request notification. An
// undeliverable notification never invalidates the request itself.
type Record struct {
	Request   Request
	Delivered bool
	Reason    string
}

// Notifier delivers a request to the library owner. Implementations live in
// internal/notify.
type Notifier interface {
	Deliver(ctx context.Context, req Request) Record
}

// Dispatcher mints Request entities from resolved candidates and hands them
// to the notifier, passing the delivery result back unchanged.
type Dispatcher struct {
	notifier Notifier
	journal  *Journal
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher builds a dispatcher. The journal may be nil when persistence
// is disabled (one-shot CLI use).
func NewDispatcher(notifier Notifier, journal *Journal, logger *slog.Logger) (*Dispatcher, error) {
	if notifier == nil {
		return nil, errors.New("dispatcher requires a notifier")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		notifier: notifier,
		journal:  journal,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Dispatch creates the Request for a resolved candidate and routes it to the
// library owner. Journal failures are logged, never fatal: the journal is
// owner-side bookkeeping, while the Request stands on its own.
func (d *Dispatcher) Dispatch(ctx context.Context, requesterUserID string, candidate library.Candidate) Record {
	req := Request{
		ID:              uuid.NewString(),
		RequesterUserID: requesterUserID,
		Candidate:       candidate,
		CreatedAt:       d.now().UTC(),
	}

	if d.journal != nil {
		if err := d.journal.Record(ctx, req); err != nil {
			d.logger.Warn("journal write failed",
				logging.String(logging.FieldRequestID, req.ID),
				logging.Error(err))
		}
	}

	record := d.notifier.Deliver(ctx, req)

	if d.journal != nil {
		if err := d.journal.MarkDelivery(ctx, req.ID, record.Delivered, record.Reason); err != nil {
			d.logger.Warn("journal delivery update failed",
				logging.String(logging.FieldRequestID, req.ID),
				logging.Error(err))
		}
	}

	d.logger.Info("request dispatched",
		logging.String(logging.FieldRequestID, req.ID),
		logging.String(logging.FieldUserID, requesterUserID),
		logging.String("candidate", candidate.Label()),
		logging.Bool("delivered", record.Delivered))
	return record
}
