package request_test

import (
	"context"
	"path/filepath"
	"testing"

	"marquee/internal/library"
	"marquee/internal/request"
)

type scriptedNotifier struct {
	delivered bool
	reason    string
	seen      []request.Request
}

func (n *scriptedNotifier) Deliver(_ context.Context, req request.Request) request.Record {
	n.seen = append(n.seen, req)
	return request.Record{Request: req, Delivered: n.delivered, Reason: n.reason}
}

func TestDispatchCreatesOneRequest(t *testing.T) {
	notifier := &scriptedNotifier{delivered: true}
	dispatcher, err := request.NewDispatcher(notifier, nil, nil)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	candidate := library.Candidate{ID: "lib-1", Title: "The Matrix", Year: 1999}
	record := dispatcher.Dispatch(context.Background(), "user-1", candidate)

	if len(notifier.seen) != 1 {
		t.Fatalf("notifier saw %d requests, want exactly 1", len(notifier.seen))
	}
	if record.Request.ID == "" {
		t.Error("request has no identifier")
	}
	if record.Request.CreatedAt.IsZero() {
		t.Error("request has no creation timestamp")
	}
	if record.Request.Candidate != candidate {
		t.Errorf("candidate = %+v, want pass-through", record.Request.Candidate)
	}
	if !record.Delivered {
		t.Error("record should pass the notifier result through unchanged")
	}
}

func TestDispatchSurvivesUndeliverableNotification(t *testing.T) {
	journal, err := request.OpenJournal(filepath.Join(t.TempDir(), "requests.db"))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	defer journal.Close()

	notifier := &scriptedNotifier{delivered: false, reason: "dms disabled"}
	dispatcher, err := request.NewDispatcher(notifier, journal, nil)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	record := dispatcher.Dispatch(context.Background(), "user-1",
		library.Candidate{ID: "lib-2", Title: "Heat", Year: 1995})

	if record.Delivered {
		t.Fatal("expected undelivered record")
	}
	// Degraded success: the request is journaled despite the failed DM.
	entries, err := journal.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(entries))
	}
	if entries[0].Delivered {
		t.Error("journal should record the failed delivery")
	}
	if entries[0].Reason != "dms disabled" {
		t.Errorf("journal reason = %q", entries[0].Reason)
	}
}

func TestNewDispatcherRequiresNotifier(t *testing.T) {
	if _, err := request.NewDispatcher(nil, nil, nil); err == nil {
		t.Fatal("expected error for nil notifier")
	}
}
