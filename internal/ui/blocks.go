package ui

import (
	"strings"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/service"
)

// RenderBlock renders a single content block without indentation.
func RenderBlock(b domain.Block) string {
	switch b.Type {
	case domain.BlockParagraph:
		return b.Text
	case domain.BlockHeading1:
		return Bold.Render("# " + b.Text)
	case domain.BlockHeading2:
		return Bold.Render("## " + b.Text)
	case domain.BlockHeading3:
		return Bold.Render("### " + b.Text)
	case domain.BlockBulleted:
		return "• " + b.Text
	case domain.BlockNumbered:
		return "1. " + b.Text
	case domain.BlockToDo:
		box := "☐"
		if b.Checked {
			box = "✓"
		}
		return box + " " + b.Text
	case domain.BlockToggle:
		return "▶ " + b.Text
	case domain.BlockCode:
		return Code.Render("```" + b.Language + "\n" + b.Text + "\n```")
	case domain.BlockQuote:
		return Italic.Render(`" ` + b.Text)
	case domain.BlockDivider:
		return "---"
	default:
		return Faint.Render("[" + b.Type + "]")
	}
}

// RenderBlocks renders a block tree one line per block, indenting nested
// children by two spaces per level.
func RenderBlocks(nodes []service.BlockNode) []string {
	var lines []string
	var walk func(nodes []service.BlockNode, depth int)
	walk = func(nodes []service.BlockNode, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, n := range nodes {
			if out := RenderBlock(n.Block); out != "" {
				lines = append(lines, indent+out)
			}
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
	return lines
}
