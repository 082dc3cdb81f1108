package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/notion"
	"github.com/supportops/ticketsync/internal/repository"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

const (
	defaultChildLimit = 5
	maxContentDepth   = 8
)

// DatabaseService inspects and creates workspace databases.
type DatabaseService struct {
	databases repository.DatabaseRepository
	blocks    repository.BlockRepository
	logger    *zap.Logger
}

// NewDatabaseService creates the service.
func NewDatabaseService(databases repository.DatabaseRepository, blocks repository.BlockRepository, logger *zap.Logger) *DatabaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatabaseService{databases: databases, blocks: blocks, logger: logger}
}

// ShowOptions controls a database listing.
type ShowOptions struct {
	// Limit caps fetched entries; zero fetches all.
	Limit int
	// Children expands page content for the first ChildLimit entries.
	Children   bool
	ChildLimit int
}

// BlockNode is a block with its nested children.
type BlockNode struct {
	Block    domain.Block
	Children []BlockNode
}

// EntryContent is the expanded content of one entry.
type EntryContent struct {
	Entry  domain.Entry
	Blocks []BlockNode
	Err    error
}

// DatabaseView is everything db show prints.
type DatabaseView struct {
	Database domain.Database
	// Matches counts databases that matched a name lookup.
	Matches int
	Entries []domain.Entry
	Content []EntryContent
}

// ListDatabases returns every visible database, most recently edited first.
func (s *DatabaseService) ListDatabases(ctx context.Context) ([]domain.Database, error) {
	dbs, err := s.databases.Search(ctx, "")
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sort.SliceStable(dbs, func(i, j int) bool {
		return dbs[i].LastEditedTime.After(dbs[j].LastEditedTime)
	})
	return dbs, nil
}

// Resolve finds a database by id (with or without dashes) or by name. A
// name lookup takes the first match and reports how many matched.
func (s *DatabaseService) Resolve(ctx context.Context, identifier string) (*domain.Database, int, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, 0, apperrors.NewValidationError("database identifier is required", nil)
	}
	if notion.LooksLikeID(identifier) {
		db, err := s.databases.Get(ctx, notion.NormalizeID(identifier))
		if err != nil {
			return nil, 0, apperrors.MapError(err)
		}
		return db, 1, nil
	}

	found, err := s.databases.Search(ctx, identifier)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	needle := strings.ToLower(identifier)
	var matches []domain.Database
	for _, db := range found {
		if strings.Contains(strings.ToLower(db.Title), needle) {
			matches = append(matches, db)
		}
	}
	if len(matches) == 0 {
		return nil, 0, apperrors.NewNotFound("database", map[string]any{"name": identifier})
	}
	first := matches[0]
	return &first, len(matches), nil
}

// Show resolves a database and reads its entries and optional content.
// Content failures are recorded per entry.
func (s *DatabaseService) Show(ctx context.Context, identifier string, opts ShowOptions) (*DatabaseView, error) {
	db, matches, err := s.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	entries, err := s.databases.Entries(ctx, db.ID, opts.Limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	view := &DatabaseView{Database: *db, Matches: matches, Entries: entries}
	if !opts.Children {
		return view, nil
	}

	limit := opts.ChildLimit
	if limit <= 0 {
		limit = defaultChildLimit
	}
	for i, entry := range entries {
		if i >= limit {
			break
		}
		nodes, err := s.Content(ctx, entry.ID)
		if err != nil {
			s.logger.Debug("could not fetch entry content", zap.String("page_id", entry.ID), zap.Error(err))
		}
		view.Content = append(view.Content, EntryContent{Entry: entry, Blocks: nodes, Err: err})
	}
	return view, nil
}

// Content reads a page's blocks, descending into blocks with children.
func (s *DatabaseService) Content(ctx context.Context, pageID string) ([]BlockNode, error) {
	return s.content(ctx, pageID, 0)
}

func (s *DatabaseService) content(ctx context.Context, parentID string, depth int) ([]BlockNode, error) {
	blocks, err := s.blocks.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	nodes := make([]BlockNode, 0, len(blocks))
	for _, block := range blocks {
		node := BlockNode{Block: block}
		if block.HasChildren && depth < maxContentDepth && block.Type != domain.BlockChildPage && block.Type != domain.BlockChildDatabase {
			children, err := s.content(ctx, block.ID, depth+1)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// CreateTicketsInput describes the database to create.
type CreateTicketsInput struct {
	ParentPageID string
	Title        string
	// EngagementsDB is the relation target for the Customer property.
	EngagementsDB string
}

// CreateTicketsResult reports the new database and where it was placed.
type CreateTicketsResult struct {
	Database    domain.Database
	ParentID    string
	ParentTitle string
}

// CreateTicketsDatabase creates the ticket database from the embedded
// schema. Without a parent page it uses the first page the integration sees.
func (s *DatabaseService) CreateTicketsDatabase(ctx context.Context, input CreateTicketsInput) (*CreateTicketsResult, error) {
	if strings.TrimSpace(input.EngagementsDB) == "" {
		return nil, apperrors.NewValidationError("a customer database id is required for the Customer relation", nil)
	}
	schema, err := notion.SupportTicketsSchema()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	configs, err := schema.PropertyConfigs(map[string]string{notion.RelationEngagements: input.EngagementsDB})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	result := &CreateTicketsResult{ParentID: strings.TrimSpace(input.ParentPageID)}
	if result.ParentID == "" {
		id, title, err := s.databases.FirstPage(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if id == "" {
			return nil, apperrors.NewNotFound("parent page", map[string]any{"hint": "share a page with the integration or pass --parent"})
		}
		result.ParentID, result.ParentTitle = id, title
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = schema.Title
	}
	db, err := s.databases.Create(ctx, result.ParentID, title, configs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result.Database = *db
	return result, nil
}
