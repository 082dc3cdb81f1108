package repository

import (
	"context"
	"sort"

	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/paginate"
)

// DatabaseRepository inspects and creates workspace databases.
type DatabaseRepository interface {
	// Search lists databases visible to the integration whose title matches
	// query; an empty query lists all of them.
	Search(ctx context.Context, query string) ([]domain.Database, error)
	Get(ctx context.Context, id string) (*domain.Database, error)
	// Entries returns up to limit rows with values formatted for display.
	Entries(ctx context.Context, id string, limit int) ([]domain.Entry, error)
	Create(ctx context.Context, parentPageID, title string, properties notionapi.PropertyConfigs) (*domain.Database, error)
	// FirstPage returns the first page visible to the integration.
	FirstPage(ctx context.Context) (id, title string, err error)
}

type databaseRepository struct {
	client    *notionapi.Client
	formatter notion.Formatter
}

// NewDatabaseRepository instantiates repository.
func NewDatabaseRepository(client *notionapi.Client) DatabaseRepository {
	return &databaseRepository{
		client:    client,
		formatter: notion.Formatter{Relations: notion.RelationIDs},
	}
}

func (r *databaseRepository) Search(ctx context.Context, query string) ([]domain.Database, error) {
	fetch := func(ctx context.Context, cursor notionapi.Cursor) (paginate.Page[notionapi.Cursor, domain.Database], error) {
		resp, err := r.client.Search.Do(ctx, &notionapi.SearchRequest{
			Query:       query,
			Filter:      notionapi.SearchFilter{Property: "object", Value: "database"},
			StartCursor: cursor,
			PageSize:    notionPageSize,
		})
		if err != nil {
			return paginate.Page[notionapi.Cursor, domain.Database]{}, err
		}
		var dbs []domain.Database
		for _, obj := range resp.Results {
			if db, ok := obj.(*notionapi.Database); ok {
				dbs = append(dbs, toDatabase(db))
			}
		}
		return paginate.Page[notionapi.Cursor, domain.Database]{
			Items: dbs,
			Next:  notionapi.Cursor(resp.NextCursor),
			More:  resp.HasMore,
		}, nil
	}
	return paginate.Collect(ctx, fetch)
}

func (r *databaseRepository) Get(ctx context.Context, id string) (*domain.Database, error) {
	db, err := r.client.Database.Get(ctx, notionapi.DatabaseID(id))
	if err != nil {
		return nil, err
	}
	out := toDatabase(db)
	return &out, nil
}

func (r *databaseRepository) Entries(ctx context.Context, id string, limit int) ([]domain.Entry, error) {
	req := notionapi.DatabaseQueryRequest{}
	if limit > 0 && limit < notionPageSize {
		req.PageSize = limit
	}
	pages, err := paginate.CollectN(ctx, queryPages(r.client, id, req), limit)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.Entry, 0, len(pages))
	for _, page := range pages {
		entries = append(entries, domain.Entry{ID: string(page.ID), Values: r.formatter.FormatAll(page.Properties)})
	}
	return entries, nil
}

func (r *databaseRepository) Create(ctx context.Context, parentPageID, title string, properties notionapi.PropertyConfigs) (*domain.Database, error) {
	db, err := r.client.Database.Create(ctx, &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(parentPageID),
		},
		Title:      notion.RichText(title),
		Properties: properties,
	})
	if err != nil {
		return nil, err
	}
	out := toDatabase(db)
	return &out, nil
}

func (r *databaseRepository) FirstPage(ctx context.Context) (string, string, error) {
	resp, err := r.client.Search.Do(ctx, &notionapi.SearchRequest{
		Filter:   notionapi.SearchFilter{Property: "object", Value: "page"},
		PageSize: 1,
	})
	if err != nil {
		return "", "", err
	}
	for _, obj := range resp.Results {
		if page, ok := obj.(*notionapi.Page); ok {
			return string(page.ID), titleOf(page.Properties, "title"), nil
		}
	}
	return "", "", nil
}

func toDatabase(db *notionapi.Database) domain.Database {
	out := domain.Database{
		ID:             string(db.ID),
		Title:          notion.PlainText(db.Title),
		URL:            db.URL,
		ParentType:     string(db.Parent.Type),
		ParentPageID:   string(db.Parent.PageID),
		CreatedTime:    db.CreatedTime,
		LastEditedTime: db.LastEditedTime,
	}
	for name, prop := range db.Properties {
		if prop == nil {
			continue
		}
		out.Properties = append(out.Properties, domain.PropertySchema{Name: name, Type: string(prop.GetType())})
	}
	sort.Slice(out.Properties, func(i, j int) bool {
		return out.Properties[i].Name < out.Properties[j].Name
	})
	return out
}
