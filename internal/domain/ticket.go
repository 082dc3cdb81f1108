package domain

import "time"

// MirroredTicket is a row of the support tickets database.
type MirroredTicket struct {
	ID          string
	Key         string
	Link        string
	CustomerIDs []string
	Summary     string
	Status      string
	Priority    string
	Agent       string
	Assignee    string
	FreshdeskID string
	Tags        []string
	CreatedDate time.Time
	// Display holds formatted property values keyed by property name.
	Display map[string]string
}

// TicketFilter narrows ticket database queries.
type TicketFilter struct {
	CustomerID string
	Status     string
	Limit      int
}
