// Package app assembles the collaborators one command needs from
// configuration.
package app

import (
	"context"
	"sync"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/auth"
	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/events"
	"github.com/supportops/ticketsync/internal/freshdesk"
	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/observability"
	"github.com/supportops/ticketsync/internal/persistence"
	"github.com/supportops/ticketsync/internal/repository"
	"github.com/supportops/ticketsync/internal/service"
	"github.com/supportops/ticketsync/internal/worker"
)

// Session is built once per command. API clients are created on first use,
// after the command has validated the settings they need.
type Session struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher

	notionOnce sync.Once
	notion     *notionapi.Client

	helpdeskOnce sync.Once
	helpdesk     *freshdesk.Client
}

// NewSession wraps cfg and logger.
func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		Config:     cfg,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Dispatcher: events.NewInMemoryDispatcher(),
	}
}

// Notion returns the workspace API client.
func (s *Session) Notion() *notionapi.Client {
	s.notionOnce.Do(func() {
		s.notion = notion.NewClient(s.Config.Notion, nil)
	})
	return s.notion
}

// Helpdesk returns the helpdesk API client.
func (s *Session) Helpdesk() *freshdesk.Client {
	s.helpdeskOnce.Do(func() {
		s.helpdesk = freshdesk.NewClient(s.Config.Freshdesk, s.Logger)
	})
	return s.helpdesk
}

// CustomerRepository reads the support engagements database.
func (s *Session) CustomerRepository() repository.CustomerRepository {
	return repository.NewCustomerRepository(s.Notion(), s.Config.Notion.EngagementsDB, s.Config.Schema)
}

// TicketRepository reads and writes the support tickets database.
func (s *Session) TicketRepository() repository.TicketRepository {
	return repository.NewTicketRepository(s.Notion(), s.Config.Notion.TicketsDB, s.Config.Schema)
}

// Tickets returns the ticket listing and creation service.
func (s *Session) Tickets() *service.TicketService {
	return service.NewTicketService(service.TicketDependencies{
		TicketRepo:   s.TicketRepository(),
		CustomerRepo: s.CustomerRepository(),
		Logger:       s.Logger,
	})
}

// Databases returns the database inspection service.
func (s *Session) Databases() *service.DatabaseService {
	client := s.Notion()
	return service.NewDatabaseService(repository.NewDatabaseRepository(client), repository.NewBlockRepository(client), s.Logger)
}

// Customers returns the customer registry service. The helpdesk side is
// only wired when its credentials are present.
func (s *Session) Customers() *service.CustomerService {
	var companies service.CompanyLister
	if len(s.Config.Missing(config.FreshdeskAPIKey, config.FreshdeskDomain)) == 0 {
		companies = s.Helpdesk()
	}
	return service.NewCustomerService(s.CustomerRepository(), companies)
}

// Tokens returns the bearer token manager.
func (s *Session) Tokens() *auth.TokenManager {
	return auth.NewTokenManager(s.Config.Auth.JWTSecret, s.Config.Auth.AccessTokenTTLMinutes)
}

// Stores holds the optional run history database and lock store.
type Stores struct {
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
}

// Close releases both stores.
func (st *Stores) Close() {
	st.Postgres.Close()
	st.Redis.Close()
}

// OpenStores connects to Postgres and Redis when configured and applies
// migrations. Unconfigured stores are left disabled.
func (s *Session) OpenStores(ctx context.Context) (*Stores, error) {
	pg, err := persistence.NewPostgres(ctx, s.Config.Postgres, s.Logger)
	if err != nil {
		return nil, err
	}
	if s.Config.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), s.Logger); err != nil {
			pg.Close()
			return nil, err
		}
	}
	return &Stores{Postgres: pg, Redis: persistence.NewRedis(s.Config.Redis, s.Logger)}, nil
}

// Sync returns the orchestrator wired to the stores and the run lock. The
// notification service and any extra subscribers receive its events.
func (s *Session) Sync(stores *Stores, subscribers ...worker.Subscriber) *service.SyncService {
	client := s.Notion()
	notifier := service.NewNotificationService(s.Logger, s.Config.Notification)
	worker.StartSubscribers(s.Dispatcher, append([]worker.Subscriber{notifier}, subscribers...)...)
	return service.NewSyncService(service.SyncDependencies{
		CustomerRepo: s.CustomerRepository(),
		TicketRepo:   s.TicketRepository(),
		BlockRepo:    repository.NewBlockRepository(client),
		Helpdesk:     s.Helpdesk(),
		RunRepo:      repository.NewSyncRunRepository(stores.Postgres.PoolHandle()),
		Lock:         persistence.NewRunLock(stores.Redis, s.Config.Redis),
		Dispatcher:   s.Dispatcher,
		Metrics:      s.Metrics,
		Logger:       s.Logger,
	})
}
