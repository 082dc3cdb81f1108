package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/samber/lo"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/paginate"
)

// Ticket database properties outside the configurable title and relation.
const (
	PropStatus      = "Status"
	PropPriority    = "Priority"
	PropCreatedDate = "Created Date"
	PropAgent       = "Agent"
	PropAssignee    = "Assignee"
	PropFreshdeskID = "FreshDesk ID"
	PropSummary     = "Issue Summary"
	PropTags        = "Tags"
)

// TicketRepository encapsulates the mirrored ticket database.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.MirroredTicket) error
	Archive(ctx context.Context, id string) error
	// ListByCustomer returns every ticket whose relation contains customerID.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.MirroredTicket, error)
	// List returns tickets newest first, narrowed by filter.
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.MirroredTicket, error)
}

type ticketRepository struct {
	client     *notionapi.Client
	databaseID string
	schema     config.SchemaConfig
	formatter  notion.Formatter
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(client *notionapi.Client, databaseID string, schema config.SchemaConfig) TicketRepository {
	return &ticketRepository{
		client:     client,
		databaseID: databaseID,
		schema:     schema,
		formatter:  notion.Formatter{Relations: notion.RelationPresence},
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.MirroredTicket) error {
	page, err := r.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(r.databaseID),
		},
		Properties: r.properties(ticket),
	})
	if err != nil {
		return err
	}
	ticket.ID = string(page.ID)
	return nil
}

func (r *ticketRepository) Archive(ctx context.Context, id string) error {
	_, err := r.client.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	})
	return err
}

func (r *ticketRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.MirroredTicket, error) {
	req := notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: r.schema.TicketCustomerProperty,
			Relation: &notionapi.RelationFilterCondition{Contains: customerID},
		},
		Sorts: []notionapi.SortObject{{Property: PropCreatedDate, Direction: notionapi.SortOrderDESC}},
	}
	return r.collect(ctx, req, 0)
}

func (r *ticketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.MirroredTicket, error) {
	var conditions []notionapi.Filter
	if filter.Status != "" {
		conditions = append(conditions, &notionapi.PropertyFilter{
			Property: PropStatus,
			Select:   &notionapi.SelectFilterCondition{Equals: filter.Status},
		})
	}
	if filter.CustomerID != "" {
		conditions = append(conditions, &notionapi.PropertyFilter{
			Property: r.schema.TicketCustomerProperty,
			Relation: &notionapi.RelationFilterCondition{Contains: filter.CustomerID},
		})
	}

	req := notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{Property: PropCreatedDate, Direction: notionapi.SortOrderDESC}},
	}
	switch len(conditions) {
	case 0:
	case 1:
		req.Filter = conditions[0]
	default:
		req.Filter = notionapi.AndCompoundFilter(conditions)
	}
	return r.collect(ctx, req, filter.Limit)
}

func (r *ticketRepository) collect(ctx context.Context, req notionapi.DatabaseQueryRequest, limit int) ([]domain.MirroredTicket, error) {
	if limit > 0 && limit < notionPageSize {
		req.PageSize = limit
	}
	pages, err := paginate.CollectN(ctx, queryPages(r.client, r.databaseID, req), limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(pages, func(page notionapi.Page, _ int) domain.MirroredTicket {
		return r.toTicket(page)
	}), nil
}

func (r *ticketRepository) properties(ticket *domain.MirroredTicket) notionapi.Properties {
	title := notion.RichText(ticket.Key)
	if ticket.Link != "" {
		title = notion.LinkedRichText(ticket.Key, ticket.Link)
	}
	props := notionapi.Properties{
		r.schema.TicketTitleProperty: &notionapi.TitleProperty{Title: title},
	}
	if len(ticket.CustomerIDs) > 0 {
		props[r.schema.TicketCustomerProperty] = &notionapi.RelationProperty{
			Relation: lo.Map(ticket.CustomerIDs, func(id string, _ int) notionapi.Relation {
				return notionapi.Relation{ID: notionapi.PageID(id)}
			}),
		}
	}
	if ticket.Status != "" {
		props[PropStatus] = &notionapi.SelectProperty{Select: notionapi.Option{Name: ticket.Status}}
	}
	if ticket.Priority != "" {
		props[PropPriority] = &notionapi.SelectProperty{Select: notionapi.Option{Name: ticket.Priority}}
	}
	if !ticket.CreatedDate.IsZero() {
		props[PropCreatedDate] = newDateOnlyProperty(ticket.CreatedDate)
	}
	if ticket.Agent != "" {
		props[PropAgent] = &notionapi.RichTextProperty{RichText: notion.RichText(ticket.Agent)}
	}
	if ticket.FreshdeskID != "" {
		props[PropFreshdeskID] = &notionapi.RichTextProperty{RichText: notion.RichText(ticket.FreshdeskID)}
	}
	if ticket.Summary != "" {
		props[PropSummary] = &notionapi.RichTextProperty{RichText: notion.RichText(ticket.Summary)}
	}
	if len(ticket.Tags) > 0 {
		props[PropTags] = &notionapi.MultiSelectProperty{
			MultiSelect: lo.Map(ticket.Tags, func(tag string, _ int) notionapi.Option {
				return notionapi.Option{Name: tag}
			}),
		}
	}
	return props
}

// dateOnlyProperty writes a date without a time. notionapi.Date always
// marshals as RFC 3339, which the workspace stores as midnight UTC.
type dateOnlyProperty struct {
	Type notionapi.PropertyType `json:"type"`
	Date dateOnlyValue          `json:"date"`
}

type dateOnlyValue struct {
	Start string `json:"start"`
}

func newDateOnlyProperty(t time.Time) *dateOnlyProperty {
	return &dateOnlyProperty{
		Type: notionapi.PropertyTypeDate,
		Date: dateOnlyValue{Start: t.UTC().Format(time.DateOnly)},
	}
}

func (p dateOnlyProperty) GetID() string { return "" }

func (p dateOnlyProperty) GetType() notionapi.PropertyType { return p.Type }

func (r *ticketRepository) toTicket(page notionapi.Page) domain.MirroredTicket {
	display := r.formatter.FormatAll(page.Properties)
	ticket := domain.MirroredTicket{
		ID:          string(page.ID),
		Key:         titleOf(page.Properties, r.schema.TicketTitleProperty),
		Link:        page.URL,
		CustomerIDs: relationIDs(page.Properties[r.schema.TicketCustomerProperty]),
		Summary:     display[PropSummary],
		Status:      display[PropStatus],
		Priority:    display[PropPriority],
		Agent:       display[PropAgent],
		Assignee:    display[PropAssignee],
		FreshdeskID: display[PropFreshdeskID],
		Display:     display,
	}
	if tags := strings.TrimSpace(display[PropTags]); tags != "" {
		ticket.Tags = strings.Split(tags, ", ")
	}
	if date, ok := page.Properties[PropCreatedDate].(*notionapi.DateProperty); ok && date != nil && date.Date != nil && date.Date.Start != nil {
		ticket.CreatedDate = time.Time(*date.Date.Start)
	}
	return ticket
}
