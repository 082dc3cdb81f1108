package repository

import (
	"context"

	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/paginate"
)

const notionPageSize = 100

// queryPages pages through a database query. req is copied per call so the
// returned fetcher can be replayed.
func queryPages(client *notionapi.Client, databaseID string, req notionapi.DatabaseQueryRequest) paginate.Fetcher[notionapi.Cursor, notionapi.Page] {
	return func(ctx context.Context, cursor notionapi.Cursor) (paginate.Page[notionapi.Cursor, notionapi.Page], error) {
		page := req
		page.StartCursor = cursor
		if page.PageSize <= 0 || page.PageSize > notionPageSize {
			page.PageSize = notionPageSize
		}
		resp, err := client.Database.Query(ctx, notionapi.DatabaseID(databaseID), &page)
		if err != nil {
			return paginate.Page[notionapi.Cursor, notionapi.Page]{}, err
		}
		return paginate.Page[notionapi.Cursor, notionapi.Page]{
			Items: resp.Results,
			Next:  notionapi.Cursor(resp.NextCursor),
			More:  resp.HasMore,
		}, nil
	}
}

// titleOf returns the named title property, or the first title property
// found when name is absent.
func titleOf(props notionapi.Properties, name string) string {
	if prop, ok := props[name].(*notionapi.TitleProperty); ok && prop != nil {
		return notion.PlainText(prop.Title)
	}
	for _, prop := range props {
		if title, ok := prop.(*notionapi.TitleProperty); ok && title != nil {
			return notion.PlainText(title.Title)
		}
	}
	return ""
}

func relationIDs(prop notionapi.Property) []string {
	rel, ok := prop.(*notionapi.RelationProperty)
	if !ok || rel == nil {
		return nil
	}
	ids := make([]string, 0, len(rel.Relation))
	for _, r := range rel.Relation {
		ids = append(ids, string(r.ID))
	}
	return ids
}
