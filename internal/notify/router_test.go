package notify_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marquee/internal/library"
	"marquee/internal/notify"
	"marquee/internal/request"
	"marquee/internal/testsupport"
)

func sampleRequest() request.Request {
	return request.Request{
		ID:              "req-1",
		RequesterUserID: "user-1",
		Candidate: library.Candidate{
			ID:      "lib-1",
			Title:   "Inception",
			Year:    2010,
			Summary: "A thief who steals corporate secrets.",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestDeliverSendsAdminDirectMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recorder := testsupport.NewChatRecorder()
	router := notify.NewRouter(cfg, recorder, nil)

	record := router.Deliver(context.Background(), sampleRequest())
	if !record.Delivered {
		t.Fatalf("record not delivered: %+v", record)
	}

	dms := recorder.DirectMessages()
	if len(dms) != 1 {
		t.Fatalf("direct messages = %d, want 1", len(dms))
	}
	if dms[0].Target != "admin-user" {
		t.Errorf("DM target = %q, want admin-user", dms[0].Target)
	}
	for _, want := range []string{"user-1", "Inception (2010)", "corporate secrets"} {
		if !strings.Contains(dms[0].Text, want) {
			t.Errorf("DM missing %q: %q", want, dms[0].Text)
		}
	}
}

func TestDeliverFailureDegradesRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recorder := testsupport.NewChatRecorder()
	recorder.FailDirectMessages(errors.New("dms disabled"))
	router := notify.NewRouter(cfg, recorder, nil)

	record := router.Deliver(context.Background(), sampleRequest())
	if record.Delivered {
		t.Fatal("record should be undelivered")
	}
	if record.Reason != "dms disabled" {
		t.Errorf("reason = %q", record.Reason)
	}
	// The request carried by the record survives untouched.
	if record.Request.ID != "req-1" {
		t.Errorf("request ID = %q", record.Request.ID)
	}
}

func TestDeliverMirrorsToNtfy(t *testing.T) {
	type captured struct {
		title string
		tags  string
		body  string
	}
	received := make(chan captured, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- captured{
			title: r.Header.Get("Title"),
			tags:  r.Header.Get("Tags"),
			body:  string(body),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	router := notify.NewRouter(cfg, testsupport.NewChatRecorder(), nil)
	router.Deliver(context.Background(), sampleRequest())

	select {
	case got := <-received:
		if got.title != "Marquee - Movie Request" {
			t.Errorf("Title = %q", got.title)
		}
		if got.tags != "marquee,request" {
			t.Errorf("Tags = %q", got.tags)
		}
		if !strings.Contains(got.body, "Inception (2010)") {
			t.Errorf("body = %q", got.body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ntfy mirror never called")
	}
}

func TestDeliverUnmatchedNamesRawTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	recorder := testsupport.NewChatRecorder()
	router := notify.NewRouter(cfg, recorder, nil)

	if err := router.DeliverUnmatched(context.Background(), "user-2", "  Zardoz  "); err != nil {
		t.Fatalf("DeliverUnmatched: %v", err)
	}
	dms := recorder.DirectMessages()
	if len(dms) != 1 {
		t.Fatalf("direct messages = %d, want 1", len(dms))
	}
	if !strings.Contains(dms[0].Text, "Zardoz") || !strings.Contains(dms[0].Text, "not in library") {
		t.Errorf("DM = %q", dms[0].Text)
	}
}
