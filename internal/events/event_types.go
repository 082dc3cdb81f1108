package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/supportops/ticketsync/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSyncCustomerStarted   EventType = "sync_customer_started"
	EventSyncCustomerCompleted EventType = "sync_customer_completed"
	EventSyncCustomerFailed    EventType = "sync_customer_failed"
	EventSyncRunCompleted      EventType = "sync_run_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, runID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RunID:     runID,
		Timestamp: at,
		Payload:   payload,
	}
}

// CustomerStartedPayload payload.
type CustomerStartedPayload struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	CompanyID  string `json:"company_id"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
}

// CustomerResultPayload payload for completed and failed customers.
type CustomerResultPayload struct {
	Result domain.CustomerSyncResult `json:"result"`
}

// RunCompletedPayload payload.
type RunCompletedPayload struct {
	Report domain.SyncReport `json:"report"`
}
