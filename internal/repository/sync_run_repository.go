package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportops/ticketsync/internal/domain"
)

const memoryRunHistory = 50

// SyncRunRepository records sync run history.
type SyncRunRepository interface {
	Create(ctx context.Context, run *domain.SyncReport) error
	Finish(ctx context.Context, run *domain.SyncReport) error
	ListRecent(ctx context.Context, limit int) ([]domain.SyncReport, error)
	GetByID(ctx context.Context, id string) (*domain.SyncReport, error)
}

// NewSyncRunRepository returns a Postgres-backed repository, or an
// in-memory one when pool is nil.
func NewSyncRunRepository(pool *pgxpool.Pool) SyncRunRepository {
	if pool == nil {
		return NewMemorySyncRunRepository()
	}
	return &syncRunRepository{pool: pool}
}

type syncRunRepository struct {
	pool *pgxpool.Pool
}

func (r *syncRunRepository) Create(ctx context.Context, run *domain.SyncReport) error {
	const query = `
        INSERT INTO sync_runs (id, status, trigger, started_at)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, query, run.RunID, run.Status, run.Trigger, run.StartedAt)
	return err
}

func (r *syncRunRepository) Finish(ctx context.Context, run *domain.SyncReport) error {
	customers, err := json.Marshal(run.Customers)
	if err != nil {
		return fmt.Errorf("encode customers: %w", err)
	}
	const query = `
        UPDATE sync_runs SET status=$1, finished_at=$2, total_created=$3, failed=$4, error=$5, customers=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		run.Status,
		run.FinishedAt,
		run.TotalCreated,
		run.Failed,
		run.Error,
		customers,
		run.RunID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.SyncReport, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, status, trigger, started_at, finished_at, total_created, failed, error, customers
        FROM sync_runs ORDER BY started_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.SyncReport
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (r *syncRunRepository) GetByID(ctx context.Context, id string) (*domain.SyncReport, error) {
	const query = `
        SELECT id, status, trigger, started_at, finished_at, total_created, failed, error, customers
        FROM sync_runs WHERE id=$1`
	return scanSyncRun(r.pool.QueryRow(ctx, query, id))
}

func scanSyncRun(row pgx.Row) (*domain.SyncReport, error) {
	var (
		run       domain.SyncReport
		customers []byte
		finished  *time.Time
	)
	if err := row.Scan(
		&run.RunID,
		&run.Status,
		&run.Trigger,
		&run.StartedAt,
		&finished,
		&run.TotalCreated,
		&run.Failed,
		&run.Error,
		&customers,
	); err != nil {
		return nil, err
	}
	if finished != nil {
		run.FinishedAt = *finished
	}
	if len(customers) > 0 {
		if err := json.Unmarshal(customers, &run.Customers); err != nil {
			return nil, fmt.Errorf("decode customers: %w", err)
		}
	}
	return &run, nil
}

// MemorySyncRunRepository keeps the most recent runs in process memory.
type MemorySyncRunRepository struct {
	mu   sync.Mutex
	runs []domain.SyncReport
}

// NewMemorySyncRunRepository instantiates repository.
func NewMemorySyncRunRepository() *MemorySyncRunRepository {
	return &MemorySyncRunRepository{}
}

func (r *MemorySyncRunRepository) Create(_ context.Context, run *domain.SyncReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append([]domain.SyncReport{*run}, r.runs...)
	if len(r.runs) > memoryRunHistory {
		r.runs = r.runs[:memoryRunHistory]
	}
	return nil
}

func (r *MemorySyncRunRepository) Finish(_ context.Context, run *domain.SyncReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.runs {
		if r.runs[i].RunID == run.RunID {
			r.runs[i] = *run
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *MemorySyncRunRepository) ListRecent(_ context.Context, limit int) ([]domain.SyncReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	return append([]domain.SyncReport(nil), r.runs[:limit]...), nil
}

func (r *MemorySyncRunRepository) GetByID(_ context.Context, id string) (*domain.SyncReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.RunID == id {
			out := run
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}
