package domain

import (
	"strconv"
	"time"
)

// HelpdeskStatus is the numeric Freshdesk ticket status.
type HelpdeskStatus int

const (
	HelpdeskStatusOpen              HelpdeskStatus = 2
	HelpdeskStatusPending           HelpdeskStatus = 3
	HelpdeskStatusResolved          HelpdeskStatus = 4
	HelpdeskStatusClosed            HelpdeskStatus = 5
	HelpdeskStatusWaitingOnCustomer HelpdeskStatus = 6
)

var helpdeskStatusLabels = map[HelpdeskStatus]string{
	HelpdeskStatusOpen:              "Open",
	HelpdeskStatusPending:           "Pending",
	HelpdeskStatusResolved:          "Resolved",
	HelpdeskStatusClosed:            "Closed",
	HelpdeskStatusWaitingOnCustomer: "Waiting on Customer",
}

// Label returns the display label; unknown statuses render as Open.
func (s HelpdeskStatus) Label() string {
	if label, ok := helpdeskStatusLabels[s]; ok {
		return label
	}
	return helpdeskStatusLabels[HelpdeskStatusOpen]
}

// Mirrored reports whether tickets in this status are copied into the workspace.
func (s HelpdeskStatus) Mirrored() bool {
	switch s {
	case HelpdeskStatusOpen, HelpdeskStatusPending, HelpdeskStatusWaitingOnCustomer:
		return true
	default:
		return false
	}
}

// HelpdeskPriority is the numeric Freshdesk ticket priority.
type HelpdeskPriority int

const (
	HelpdeskPriorityLow    HelpdeskPriority = 1
	HelpdeskPriorityMedium HelpdeskPriority = 2
	HelpdeskPriorityHigh   HelpdeskPriority = 3
	HelpdeskPriorityUrgent HelpdeskPriority = 4
)

var helpdeskPriorityLabels = map[HelpdeskPriority]string{
	HelpdeskPriorityLow:    "Low",
	HelpdeskPriorityMedium: "Medium",
	HelpdeskPriorityHigh:   "High",
	HelpdeskPriorityUrgent: "Urgent",
}

// Label returns the display label, or "" for an unknown priority.
func (p HelpdeskPriority) Label() string {
	return helpdeskPriorityLabels[p]
}

// HelpdeskTicket is a ticket as returned by the helpdesk API.
type HelpdeskTicket struct {
	ID          int64            `json:"id"`
	Subject     string           `json:"subject"`
	Status      HelpdeskStatus   `json:"status"`
	Priority    HelpdeskPriority `json:"priority"`
	ResponderID *int64           `json:"responder_id"`
	CompanyID   *int64           `json:"company_id"`
	Tags        []string         `json:"tags"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Key renders the ticket reference used in mirrored titles.
func (t HelpdeskTicket) Key() string {
	return "FD-" + strconv.FormatInt(t.ID, 10)
}

// AgentContact holds the agent's contact card.
type AgentContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Agent is a helpdesk agent.
type Agent struct {
	ID      int64        `json:"id"`
	Contact AgentContact `json:"contact"`
}

// Company is a helpdesk company.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
