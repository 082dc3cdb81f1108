package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/supportops/ticketsync/internal/domain"
)

type fakeHelpdesk struct {
	tickets     map[string][]domain.HelpdeskTicket
	ticketErrs  map[string]error
	agents      map[int64]string
	agentErrs   map[int64]error
	ticketCalls []string
	agentCalls  map[int64]int
	companies   []domain.Company
}

func newFakeHelpdesk() *fakeHelpdesk {
	return &fakeHelpdesk{
		tickets:    map[string][]domain.HelpdeskTicket{},
		ticketErrs: map[string]error{},
		agents:     map[int64]string{},
		agentErrs:  map[int64]error{},
		agentCalls: map[int64]int{},
	}
}

func (f *fakeHelpdesk) ListCompanyTickets(_ context.Context, companyID string) ([]domain.HelpdeskTicket, error) {
	f.ticketCalls = append(f.ticketCalls, companyID)
	if err := f.ticketErrs[companyID]; err != nil {
		return nil, err
	}
	return f.tickets[companyID], nil
}

func (f *fakeHelpdesk) GetAgent(_ context.Context, id int64) (*domain.Agent, error) {
	f.agentCalls[id]++
	if err := f.agentErrs[id]; err != nil {
		return nil, err
	}
	name, ok := f.agents[id]
	if !ok {
		return nil, errors.New("status 404")
	}
	return &domain.Agent{ID: id, Contact: domain.AgentContact{Name: name}}, nil
}

func (f *fakeHelpdesk) ListCompanies(context.Context) ([]domain.Company, error) {
	return f.companies, nil
}

func (f *fakeHelpdesk) TicketURL(id int64) string {
	return fmt.Sprintf("https://acme.freshdesk.com/support/tickets/%d", id)
}

type fakeCustomers struct {
	customers []domain.Customer
	listErr   error
	hasFD     bool
	fdType    string
}

func (f *fakeCustomers) ListWithFreshdeskID(context.Context) ([]domain.Customer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Customer
	for _, c := range f.customers {
		if c.FreshdeskID != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) List(_ context.Context, limit int) ([]domain.Customer, error) {
	if limit > 0 && limit < len(f.customers) {
		return f.customers[:limit], nil
	}
	return f.customers, nil
}

func (f *fakeCustomers) FindByName(_ context.Context, name string) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range f.customers {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, errors.New("object_not_found")
}

func (f *fakeCustomers) HasFreshdeskProperty(context.Context) (bool, string, error) {
	return f.hasFD, f.fdType, nil
}

type fakeTickets struct {
	seq       int
	rows      []*domain.MirroredTicket
	archived  map[string]bool
	createErr error
	listErr   error
	creates   int
	lastQuery domain.TicketFilter
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{archived: map[string]bool{}}
}

func (f *fakeTickets) Create(_ context.Context, ticket *domain.MirroredTicket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	f.creates++
	ticket.ID = fmt.Sprintf("page-%d", f.seq)
	stored := *ticket
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeTickets) Archive(_ context.Context, id string) error {
	f.archived[id] = true
	return nil
}

func (f *fakeTickets) ListByCustomer(_ context.Context, customerID string) ([]domain.MirroredTicket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active(customerID, ""), nil
}

func (f *fakeTickets) List(_ context.Context, filter domain.TicketFilter) ([]domain.MirroredTicket, error) {
	f.lastQuery = filter
	out := f.active(filter.CustomerID, filter.Status)
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeTickets) active(customerID, status string) []domain.MirroredTicket {
	var out []domain.MirroredTicket
	for _, row := range f.rows {
		if f.archived[row.ID] {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		if customerID != "" && !containsString(row.CustomerIDs, customerID) {
			continue
		}
		out = append(out, *row)
	}
	return out
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

type appendCall struct {
	parentID string
	afterID  string
	texts    []string
}

type fakeBlocks struct {
	pages    map[string][]domain.Block
	listErr  error
	updates  map[string]string
	appends  []appendCall
	children map[string]error
}

func newFakeBlocks() *fakeBlocks {
	return &fakeBlocks{pages: map[string][]domain.Block{}, updates: map[string]string{}, children: map[string]error{}}
}

func (f *fakeBlocks) ListChildren(_ context.Context, parentID string) ([]domain.Block, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if err := f.children[parentID]; err != nil {
		return nil, err
	}
	return f.pages[parentID], nil
}

func (f *fakeBlocks) UpdateParagraph(_ context.Context, blockID, text string) error {
	f.updates[blockID] = text
	return nil
}

func (f *fakeBlocks) AppendParagraphs(_ context.Context, parentID, afterID string, texts ...string) error {
	f.appends = append(f.appends, appendCall{parentID: parentID, afterID: afterID, texts: texts})
	return nil
}
