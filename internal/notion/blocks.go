package notion

import (
	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/domain"
)

// ToBlock flattens an API block into the fields the tool reads.
func ToBlock(b notionapi.Block) domain.Block {
	out := domain.Block{
		ID:          string(b.GetID()),
		Type:        string(b.GetType()),
		HasChildren: b.GetHasChildren(),
	}
	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		out.Text = PlainText(v.Paragraph.RichText)
	case *notionapi.Heading1Block:
		out.Text = PlainText(v.Heading1.RichText)
	case *notionapi.Heading2Block:
		out.Text = PlainText(v.Heading2.RichText)
	case *notionapi.Heading3Block:
		out.Text = PlainText(v.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		out.Text = PlainText(v.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		out.Text = PlainText(v.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		out.Text = PlainText(v.ToDo.RichText)
		out.Checked = v.ToDo.Checked
	case *notionapi.ToggleBlock:
		out.Text = PlainText(v.Toggle.RichText)
	case *notionapi.CodeBlock:
		out.Text = PlainText(v.Code.RichText)
		out.Language = v.Code.Language
	case *notionapi.QuoteBlock:
		out.Text = PlainText(v.Quote.RichText)
	case *notionapi.ChildPageBlock:
		out.Text = v.ChildPage.Title
	case *notionapi.ChildDatabaseBlock:
		out.Text = v.ChildDatabase.Title
	}
	return out
}

// Paragraph builds a paragraph block holding text.
func Paragraph(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{RichText: RichText(text)},
	}
}
