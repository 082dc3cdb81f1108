package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/events"
	"github.com/supportops/ticketsync/internal/observability"
	"github.com/supportops/ticketsync/internal/persistence"
	"github.com/supportops/ticketsync/internal/repository"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

const unassignedAgent = "Unassigned"

// ErrSyncInProgress is returned when another run holds the run lock.
var ErrSyncInProgress = apperrors.NewConflict("a sync run is already in progress", nil)

// HelpdeskClient is the part of the helpdesk API the sync uses.
type HelpdeskClient interface {
	AgentLookup
	ListCompanyTickets(ctx context.Context, companyID string) ([]domain.HelpdeskTicket, error)
	TicketURL(id int64) string
}

// SyncService mirrors active helpdesk tickets into the ticket database.
type SyncService struct {
	customers  repository.CustomerRepository
	tickets    repository.TicketRepository
	annotator  *Annotator
	helpdesk   HelpdeskClient
	runs       repository.SyncRunRepository
	lock       persistence.RunLock
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// SyncDependencies bundles collaborators for the sync service. Runs, Lock,
// Dispatcher, Metrics, Logger and Clock are optional.
type SyncDependencies struct {
	CustomerRepo repository.CustomerRepository
	TicketRepo   repository.TicketRepository
	BlockRepo    repository.BlockRepository
	Helpdesk     HelpdeskClient
	RunRepo      repository.SyncRunRepository
	Lock         persistence.RunLock
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        func() time.Time
}

// NewSyncService creates the service.
func NewSyncService(deps SyncDependencies) *SyncService {
	svc := &SyncService{
		customers:  deps.CustomerRepo,
		tickets:    deps.TicketRepo,
		annotator:  NewAnnotator(deps.BlockRepo),
		helpdesk:   deps.Helpdesk,
		runs:       deps.RunRepo,
		lock:       deps.Lock,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.runs == nil {
		svc.runs = repository.NewMemorySyncRunRepository()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Run performs one sync pass over every customer with a helpdesk id.
// Customer failures are recorded in the report and do not stop the run; an
// error is returned only when the run could not start or the customer list
// could not be read.
func (s *SyncService) Run(ctx context.Context, trigger string) (*domain.SyncReport, error) {
	if s.lock != nil {
		release, ok, err := s.lock.TryAcquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, ErrSyncInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("release run lock", zap.Error(err))
			}
		}()
	}

	report := &domain.SyncReport{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		Status:    domain.SyncRunRunning,
		StartedAt: s.now(),
	}
	logger := s.logger.With(zap.String("run_id", report.RunID))
	if err := s.runs.Create(ctx, report); err != nil {
		logger.Warn("record run start", zap.Error(err))
	}

	customers, err := s.customers.ListWithFreshdeskID(ctx)
	if err != nil {
		report.Error = err.Error()
		s.finish(ctx, report, logger)
		return report, fmt.Errorf("list customers: %w", err)
	}
	logger.Info("customers with helpdesk ids", zap.Int("count", len(customers)))

	agents := NewAgentCache(s.helpdesk, logger)
	for i, customer := range customers {
		if err := ctx.Err(); err != nil {
			report.Error = err.Error()
			break
		}
		result := s.syncCustomer(ctx, report.RunID, agents, customer, i, len(customers), logger)
		report.Customers = append(report.Customers, result)
	}

	s.finish(ctx, report, logger)
	if report.Error != "" {
		return report, errors.New(report.Error)
	}
	return report, nil
}

// History returns recent runs, newest first.
func (s *SyncService) History(ctx context.Context, limit int) ([]domain.SyncReport, error) {
	return s.runs.ListRecent(ctx, limit)
}

// RunByID returns one recorded run.
func (s *SyncService) RunByID(ctx context.Context, id string) (*domain.SyncReport, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *SyncService) syncCustomer(ctx context.Context, runID string, agents *AgentCache, customer domain.Customer, index, total int, logger *zap.Logger) domain.CustomerSyncResult {
	result := domain.CustomerSyncResult{
		CustomerID: customer.ID,
		Name:       customer.DisplayName(),
		CompanyID:  customer.HelpdeskCompanyID(),
	}
	if result.CompanyID == "" {
		result.Skipped = true
		s.metrics.RecordCustomer(true, false, false, 0, 0)
		return result
	}

	logger = logger.With(zap.String("customer", result.Name), zap.String("company_id", result.CompanyID))
	s.publish(ctx, events.EventSyncCustomerStarted, runID, events.CustomerStartedPayload{
		CustomerID: customer.ID,
		Name:       result.Name,
		CompanyID:  result.CompanyID,
		Index:      index + 1,
		Total:      total,
	})

	if err := s.mirror(ctx, agents, customer, &result, logger); err != nil {
		result.Error = err.Error()
		logger.Error("customer sync failed", zap.Error(err))
		s.metrics.RecordCustomer(false, true, false, result.Archived, result.Created)
		s.publish(ctx, events.EventSyncCustomerFailed, runID, events.CustomerResultPayload{Result: result})
		return result
	}

	if err := s.annotator.Annotate(ctx, customer.ID, s.now(), result.Created); err != nil {
		logger.Warn("could not update sync annotation", zap.Error(err))
	} else {
		result.Annotated = true
	}

	logger.Info("customer synced",
		zap.Int("fetched", result.Fetched),
		zap.Int("archived", result.Archived),
		zap.Int("created", result.Created))
	s.metrics.RecordCustomer(false, false, result.Annotated, result.Archived, result.Created)
	s.publish(ctx, events.EventSyncCustomerCompleted, runID, events.CustomerResultPayload{Result: result})
	return result
}

// mirror archives the customer's mirrored tickets and recreates one per
// active helpdesk ticket.
func (s *SyncService) mirror(ctx context.Context, agents *AgentCache, customer domain.Customer, result *domain.CustomerSyncResult, logger *zap.Logger) error {
	fetched, err := s.helpdesk.ListCompanyTickets(ctx, result.CompanyID)
	if err != nil {
		return fmt.Errorf("fetch helpdesk tickets: %w", err)
	}
	active := lo.Filter(fetched, func(t domain.HelpdeskTicket, _ int) bool {
		return t.Status.Mirrored()
	})
	result.Fetched = len(fetched)
	result.Eligible = len(active)

	existing, err := s.tickets.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("list mirrored tickets: %w", err)
	}
	for _, ticket := range existing {
		if err := s.tickets.Archive(ctx, ticket.ID); err != nil {
			return fmt.Errorf("archive ticket %s: %w", ticket.ID, err)
		}
		result.Archived++
	}
	if result.Archived > 0 {
		logger.Debug("archived mirrored tickets", zap.Int("count", result.Archived))
	}

	for _, ticket := range active {
		agent := agents.Resolve(ctx, ticket.ResponderID)
		if agent == "" {
			agent = unassignedAgent
		}
		mirrored := &domain.MirroredTicket{
			Key:         ticket.Key() + ": " + ticket.Subject,
			Link:        s.helpdesk.TicketURL(ticket.ID),
			CustomerIDs: []string{customer.ID},
			Status:      ticket.Status.Label(),
			Priority:    ticket.Priority.Label(),
			Agent:       agent,
			FreshdeskID: strconv.FormatInt(ticket.ID, 10),
			CreatedDate: ticket.CreatedAt,
		}
		if err := s.tickets.Create(ctx, mirrored); err != nil {
			return fmt.Errorf("create ticket %s: %w", ticket.Key(), err)
		}
		result.Created++
	}
	return nil
}

func (s *SyncService) finish(ctx context.Context, report *domain.SyncReport, logger *zap.Logger) {
	report.Finalize(s.now())
	s.metrics.RecordRun(report.FinishedAt)
	if err := s.runs.Finish(context.WithoutCancel(ctx), report); err != nil {
		logger.Warn("record run finish", zap.Error(err))
	}
	logger.Info("sync run finished",
		zap.String("status", string(report.Status)),
		zap.Int("created", report.TotalCreated),
		zap.Int("failed", report.Failed))
	s.publish(ctx, events.EventSyncRunCompleted, report.RunID, events.RunCompletedPayload{Report: *report})
}

func (s *SyncService) publish(ctx context.Context, eventType events.EventType, runID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, runID, s.now(), payload)
	if err := s.dispatcher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
