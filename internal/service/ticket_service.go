package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/repository"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

const (
	defaultTicketStatus   = "Open"
	defaultTicketPriority = "Medium"
	defaultListLimit      = 20
	unknownCustomer       = "Unknown"
)

// TicketService coordinates ticket database workflows.
type TicketService struct {
	tickets   repository.TicketRepository
	customers repository.CustomerRepository
	logger    *zap.Logger
	now       func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	Logger       *zap.Logger
	Clock        func() time.Time
}

// TicketRow is a ticket with its customer's name resolved.
type TicketRow struct {
	Ticket       domain.MirroredTicket
	CustomerName string
}

// CustomerTickets is the result of a by-customer listing.
type CustomerTickets struct {
	Customer domain.Customer
	// Matches holds every customer matching the name; Customer is the first.
	Matches []domain.Customer
	Tickets []domain.MirroredTicket
}

// TicketAddInput describes a manually created ticket.
type TicketAddInput struct {
	Customer    string
	Summary     string
	TicketID    string
	Status      string
	Priority    string
	FreshdeskID string
	Tags        string
	Assignee    string
}

// TicketAddResult reports what was created.
type TicketAddResult struct {
	Customer domain.Customer
	Ticket   domain.MirroredTicket
	// AssigneeIgnored is set when an assignee was given; the people
	// property needs a workspace user id, which names cannot supply.
	AssigneeIgnored bool
}

// NewTicketService creates the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets:   deps.TicketRepo,
		customers: deps.CustomerRepo,
		logger:    deps.Logger,
		now:       deps.Clock,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// ListTickets returns the newest tickets, resolving each ticket's first
// related customer. Customers that cannot be read render as "Unknown".
func (s *TicketService) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]TicketRow, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	names := make(map[string]string)
	rows := make([]TicketRow, 0, len(tickets))
	for _, ticket := range tickets {
		row := TicketRow{Ticket: ticket}
		if len(ticket.CustomerIDs) > 0 {
			row.CustomerName = s.customerName(ctx, ticket.CustomerIDs[0], names)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TicketService) customerName(ctx context.Context, id string, names map[string]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	name := unknownCustomer
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		s.logger.Debug("could not resolve customer", zap.String("customer_id", id), zap.Error(err))
	} else {
		name = customer.Name
	}
	names[id] = name
	return name
}

// CustomerTickets lists every ticket related to the first customer whose
// name contains name.
func (s *TicketService) CustomerTickets(ctx context.Context, name string) (*CustomerTickets, error) {
	customer, matches, err := s.findCustomer(ctx, name)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &CustomerTickets{Customer: *customer, Matches: matches, Tickets: tickets}, nil
}

// AddTicket creates one ticket for the first customer matching input.Customer.
func (s *TicketService) AddTicket(ctx context.Context, input TicketAddInput) (*TicketAddResult, error) {
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		return nil, apperrors.NewValidationError("summary is required", nil)
	}
	customer, _, err := s.findCustomer(ctx, input.Customer)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ticket := domain.MirroredTicket{
		Key:         lo.Ternary(strings.TrimSpace(input.TicketID) != "", strings.TrimSpace(input.TicketID), "TICKET-"+strconv.FormatInt(now.UnixMilli(), 10)),
		CustomerIDs: []string{customer.ID},
		Summary:     summary,
		Status:      lo.Ternary(input.Status != "", input.Status, defaultTicketStatus),
		Priority:    lo.Ternary(input.Priority != "", input.Priority, defaultTicketPriority),
		FreshdeskID: strings.TrimSpace(input.FreshdeskID),
		Tags:        ParseTags(input.Tags),
		CreatedDate: now,
	}
	if err := s.tickets.Create(ctx, &ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketAddResult{
		Customer:        *customer,
		Ticket:          ticket,
		AssigneeIgnored: strings.TrimSpace(input.Assignee) != "",
	}, nil
}

func (s *TicketService) findCustomer(ctx context.Context, name string) (*domain.Customer, []domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, apperrors.NewValidationError("customer name is required", nil)
	}
	matches, err := s.customers.FindByName(ctx, name)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if len(matches) == 0 {
		return nil, nil, apperrors.NewNotFound("customer", map[string]any{"name": name})
	}
	first := matches[0]
	return &first, matches, nil
}

// ParseTags splits a comma separated tag list, dropping empty entries.
func ParseTags(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	})
}
