package repository

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/paginate"
)

// CustomerRepository reads the support engagements database.
type CustomerRepository interface {
	// ListWithFreshdeskID returns customers whose helpdesk-identifier
	// property is not empty, in query order.
	ListWithFreshdeskID(ctx context.Context) ([]domain.Customer, error)
	List(ctx context.Context, limit int) ([]domain.Customer, error)
	// FindByName returns every customer whose name contains name.
	FindByName(ctx context.Context, name string) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// HasFreshdeskProperty reports whether the database defines the
	// helpdesk-identifier property, and its type.
	HasFreshdeskProperty(ctx context.Context) (bool, string, error)
}

type customerRepository struct {
	client     *notionapi.Client
	databaseID string
	schema     config.SchemaConfig
	formatter  notion.Formatter
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(client *notionapi.Client, databaseID string, schema config.SchemaConfig) CustomerRepository {
	return &customerRepository{
		client:     client,
		databaseID: databaseID,
		schema:     schema,
		formatter:  notion.Formatter{Relations: notion.RelationIDs},
	}
}

func (r *customerRepository) ListWithFreshdeskID(ctx context.Context) ([]domain.Customer, error) {
	req := notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: r.schema.CustomerFreshdeskProperty,
			RichText: &notionapi.TextFilterCondition{IsNotEmpty: true},
		},
	}
	return r.collect(ctx, req, 0)
}

func (r *customerRepository) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	req := notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{Property: r.schema.CustomerNameProperty, Direction: notionapi.SortOrderASC}},
	}
	return r.collect(ctx, req, limit)
}

func (r *customerRepository) FindByName(ctx context.Context, name string) ([]domain.Customer, error) {
	req := notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: r.schema.CustomerNameProperty,
			RichText: &notionapi.TextFilterCondition{Contains: strings.TrimSpace(name)},
		},
	}
	return r.collect(ctx, req, 0)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	page, err := r.client.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return nil, err
	}
	customer := r.toCustomer(*page)
	return &customer, nil
}

func (r *customerRepository) HasFreshdeskProperty(ctx context.Context) (bool, string, error) {
	db, err := r.client.Database.Get(ctx, notionapi.DatabaseID(r.databaseID))
	if err != nil {
		return false, "", err
	}
	prop, ok := db.Properties[r.schema.CustomerFreshdeskProperty]
	if !ok || prop == nil {
		return false, "", nil
	}
	return true, string(prop.GetType()), nil
}

func (r *customerRepository) collect(ctx context.Context, req notionapi.DatabaseQueryRequest, limit int) ([]domain.Customer, error) {
	if limit > 0 && limit < notionPageSize {
		req.PageSize = limit
	}
	pages, err := paginate.CollectN(ctx, queryPages(r.client, r.databaseID, req), limit)
	if err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(pages))
	for _, page := range pages {
		customers = append(customers, r.toCustomer(page))
	}
	return customers, nil
}

func (r *customerRepository) toCustomer(page notionapi.Page) domain.Customer {
	return domain.Customer{
		ID:          string(page.ID),
		Name:        titleOf(page.Properties, r.schema.CustomerNameProperty),
		FreshdeskID: r.formatter.Format(page.Properties[r.schema.CustomerFreshdeskProperty]),
		URL:         page.URL,
	}
}
