package repository

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/samber/lo"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/paginate"
)

// BlockRepository reads and edits page content.
type BlockRepository interface {
	// ListChildren returns every direct child block of a page or block.
	ListChildren(ctx context.Context, parentID string) ([]domain.Block, error)
	UpdateParagraph(ctx context.Context, blockID, text string) error
	// AppendParagraphs adds one paragraph per text, after the block afterID
	// or at the end when afterID is empty.
	AppendParagraphs(ctx context.Context, parentID, afterID string, texts ...string) error
}

type blockRepository struct {
	client *notionapi.Client
}

// NewBlockRepository instantiates repository.
func NewBlockRepository(client *notionapi.Client) BlockRepository {
	return &blockRepository{client: client}
}

func (r *blockRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Block, error) {
	fetch := func(ctx context.Context, cursor notionapi.Cursor) (paginate.Page[notionapi.Cursor, notionapi.Block], error) {
		resp, err := r.client.Block.GetChildren(ctx, notionapi.BlockID(parentID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    notionPageSize,
		})
		if err != nil {
			return paginate.Page[notionapi.Cursor, notionapi.Block]{}, err
		}
		return paginate.Page[notionapi.Cursor, notionapi.Block]{
			Items: resp.Results,
			Next:  notionapi.Cursor(resp.NextCursor),
			More:  resp.HasMore,
		}, nil
	}
	blocks, err := paginate.Collect(ctx, fetch)
	if err != nil {
		return nil, err
	}
	return lo.Map(blocks, func(b notionapi.Block, _ int) domain.Block {
		return notion.ToBlock(b)
	}), nil
}

func (r *blockRepository) UpdateParagraph(ctx context.Context, blockID, text string) error {
	_, err := r.client.Block.Update(ctx, notionapi.BlockID(blockID), &notionapi.BlockUpdateRequest{
		Paragraph: &notionapi.Paragraph{RichText: notion.RichText(text)},
	})
	return err
}

func (r *blockRepository) AppendParagraphs(ctx context.Context, parentID, afterID string, texts ...string) error {
	req := &notionapi.AppendBlockChildrenRequest{
		Children: lo.Map(texts, func(text string, _ int) notionapi.Block {
			return notion.Paragraph(text)
		}),
	}
	if afterID != "" {
		req.After = notionapi.BlockID(afterID)
	}
	_, err := r.client.Block.AppendChildren(ctx, notionapi.BlockID(parentID), req)
	return err
}
