package domain

import "time"

// Run triggers.
const (
	TriggerCLI  = "cli"
	TriggerHTTP = "http"
)

// SyncRunStatus summarizes how a run ended.
type SyncRunStatus string

const (
	SyncRunRunning   SyncRunStatus = "RUNNING"
	SyncRunCompleted SyncRunStatus = "COMPLETED"
	SyncRunPartial   SyncRunStatus = "PARTIAL"
	SyncRunFailed    SyncRunStatus = "FAILED"
)

// CustomerSyncResult records what one customer's pass did.
type CustomerSyncResult struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	CompanyID  string `json:"company_id"`
	Fetched    int    `json:"fetched"`
	Eligible   int    `json:"eligible"`
	Archived   int    `json:"archived"`
	Created    int    `json:"created"`
	Skipped    bool   `json:"skipped"`
	Annotated  bool   `json:"annotated"`
	Error      string `json:"error,omitempty"`
}

// SyncReport is the outcome of one orchestrator run.
type SyncReport struct {
	RunID        string               `json:"run_id"`
	Trigger      string               `json:"trigger"`
	Status       SyncRunStatus        `json:"status"`
	StartedAt    time.Time            `json:"started_at"`
	FinishedAt   time.Time            `json:"finished_at"`
	Customers    []CustomerSyncResult `json:"customers"`
	TotalCreated int                  `json:"total_created"`
	Failed       int                  `json:"failed"`
	Error        string               `json:"error,omitempty"`
}

// Finalize derives the run status from the customer results.
func (r *SyncReport) Finalize(now time.Time) {
	r.FinishedAt = now
	r.TotalCreated = 0
	r.Failed = 0
	for _, c := range r.Customers {
		r.TotalCreated += c.Created
		if c.Error != "" {
			r.Failed++
		}
	}
	switch {
	case r.Error != "":
		r.Status = SyncRunFailed
	case r.Failed > 0:
		r.Status = SyncRunPartial
	default:
		r.Status = SyncRunCompleted
	}
}
