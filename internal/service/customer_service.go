package service

import (
	"context"
	"sort"
	"strings"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/repository"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

// CompanyLister lists helpdesk companies.
type CompanyLister interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// CustomerService reads the customer registry and helpdesk companies.
type CustomerService struct {
	customers repository.CustomerRepository
	companies CompanyLister
}

// NewCustomerService creates the service. companies may be nil when only
// the workspace side is used.
func NewCustomerService(customers repository.CustomerRepository, companies CompanyLister) *CustomerService {
	return &CustomerService{customers: customers, companies: companies}
}

// FieldCheck reports on the helpdesk-identifier property.
type FieldCheck struct {
	Property string
	Exists   bool
	Type     string
	// Populated counts customers with a non-empty value.
	Populated int
}

// ListCustomers returns up to limit customers sorted by name.
func (s *CustomerService) ListCustomers(ctx context.Context, limit int) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// CheckFreshdeskField verifies the helpdesk-identifier property exists and
// counts customers that fill it in.
func (s *CustomerService) CheckFreshdeskField(ctx context.Context, property string) (*FieldCheck, error) {
	exists, kind, err := s.customers.HasFreshdeskProperty(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	check := &FieldCheck{Property: property, Exists: exists, Type: kind}
	if !exists {
		return check, nil
	}
	populated, err := s.customers.ListWithFreshdeskID(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, c := range populated {
		if c.HelpdeskCompanyID() != "" {
			check.Populated++
		}
	}
	return check, nil
}

// ListCompanies returns every helpdesk company sorted by name.
func (s *CustomerService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	if s.companies == nil {
		return nil, apperrors.NewInternalError(nil)
	}
	companies, err := s.companies.ListCompanies(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sort.SliceStable(companies, func(i, j int) bool {
		return strings.ToLower(companies[i].Name) < strings.ToLower(companies[j].Name)
	})
	return companies, nil
}
