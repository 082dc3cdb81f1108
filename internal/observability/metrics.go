package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	sync         SyncCounters
	lastRun      time.Time
}

// SyncCounters accumulates orchestrator activity across runs.
type SyncCounters struct {
	Runs              int64 `json:"runs"`
	CustomersSynced   int64 `json:"customers_synced"`
	CustomersFailed   int64 `json:"customers_failed"`
	CustomersSkipped  int64 `json:"customers_skipped"`
	TicketsCreated    int64 `json:"tickets_created"`
	TicketsArchived   int64 `json:"tickets_archived"`
	AnnotationsFailed int64 `json:"annotations_failed"`
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Requests  map[string]int64 `json:"requests"`
	Errors    map[string]int64 `json:"errors"`
	Sync      SyncCounters     `json:"sync"`
	LastRunAt *time.Time       `json:"last_run_at,omitempty"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordCustomer adds one customer's outcome to the sync counters.
func (m *Metrics) RecordCustomer(skipped, failed, annotated bool, archived, created int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case skipped:
		m.sync.CustomersSkipped++
		return
	case failed:
		m.sync.CustomersFailed++
	default:
		m.sync.CustomersSynced++
		if !annotated {
			m.sync.AnnotationsFailed++
		}
	}
	m.sync.TicketsArchived += int64(archived)
	m.sync.TicketsCreated += int64(created)
}

// RecordRun marks the end of a sync run.
func (m *Metrics) RecordRun(at time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sync.Runs++
	m.lastRun = at
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		Requests: make(map[string]int64, len(m.requestCount)),
		Errors:   make(map[string]int64, len(m.errorCount)),
		Sync:     m.sync,
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	if !m.lastRun.IsZero() {
		last := m.lastRun
		snap.LastRunAt = &last
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
