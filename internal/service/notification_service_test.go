package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/events"
)

func TestRunCompletedPostsWebhook(t *testing.T) {
	var got WebhookPayload
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(nil, config.NotificationConfig{WebhookURL: srv.URL}).Attach(dispatcher)

	report := domain.SyncReport{
		RunID:        "run-1",
		Status:       domain.SyncRunPartial,
		TotalCreated: 3,
		Failed:       1,
		Customers:    []domain.CustomerSyncResult{{Name: "A"}, {Name: "B", Error: "boom"}},
	}
	event := events.NewEvent(events.EventSyncRunCompleted, "run-1", time.Now(), events.RunCompletedPayload{Report: report})
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if calls != 1 {
		t.Fatalf("webhook calls = %d", calls)
	}
	if got.Text != "Ticket sync partial: 3 tickets created across 2 customers, 1 failed" {
		t.Fatalf("text = %q", got.Text)
	}
	if got.Event.RunID != "run-1" || got.Event.Type != events.EventSyncRunCompleted {
		t.Fatalf("event = %+v", got.Event)
	}
}

func TestWebhookErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(nil, config.NotificationConfig{WebhookURL: srv.URL}).Attach(dispatcher)

	event := events.NewEvent(events.EventSyncRunCompleted, "run-2", time.Now(), events.RunCompletedPayload{})
	err := dispatcher.Publish(context.Background(), event)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v", err)
	}
}

func TestNoWebhookConfigured(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(nil, config.NotificationConfig{}).Attach(dispatcher)

	event := events.NewEvent(events.EventSyncRunCompleted, "run-3", time.Now(), events.RunCompletedPayload{})
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
