package domain

// Block is the subset of a page content block the tool reads.
type Block struct {
	ID          string
	Type        string
	Text        string
	Checked     bool
	Language    string
	HasChildren bool
}

// Block types the tool distinguishes.
const (
	BlockParagraph     = "paragraph"
	BlockHeading1      = "heading_1"
	BlockHeading2      = "heading_2"
	BlockHeading3      = "heading_3"
	BlockBulleted      = "bulleted_list_item"
	BlockNumbered      = "numbered_list_item"
	BlockToDo          = "to_do"
	BlockToggle        = "toggle"
	BlockCode          = "code"
	BlockQuote         = "quote"
	BlockDivider       = "divider"
	BlockChildPage     = "child_page"
	BlockChildDatabase = "child_database"
)
