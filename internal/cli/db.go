package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/service"
	"github.com/supportops/ticketsync/internal/ui"
)

func newDBCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect and create Notion databases",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return rt.require(cmd, config.NotionToken)
		},
	}
	cmd.AddCommand(
		newDBListCommand(rt),
		newDBShowCommand(rt),
		newDBCreateCommand(rt),
		newDBLocateCommand(rt),
	)
	return cmd
}

func newDBListCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accessible databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbs, err := rt.session.Databases().ListDatabases(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(dbs) == 0 {
				fmt.Fprintln(w, ui.Warning.Render("No databases found."))
				return nil
			}
			fmt.Fprintln(w, ui.Section.Render(fmt.Sprintf("\n📚 Found %d databases:\n", len(dbs))))
			now := time.Now()
			for i, db := range dbs {
				fmt.Fprintf(w, "%s %s\n", ui.Label.Render(fmt.Sprintf("%d.", i+1)), ui.Bold.Render(titleOrUntitled(db.Title)))
				fmt.Fprintf(w, "   %s %s\n", ui.Faint.Render("ID:"), db.ID)
				fmt.Fprintf(w, "   %s %s\n\n", ui.Faint.Render("Last edited:"), ui.Relative(db.LastEditedTime, now))
			}
			return nil
		},
	}
}

func newDBShowCommand(rt *runtime) *cobra.Command {
	var opts service.ShowOptions
	var columns int
	cmd := &cobra.Command{
		Use:   "show <identifier>",
		Short: "Retrieve and display a database by name or ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := rt.session.Databases().Show(cmd.Context(), args[0], opts)
			if notFound(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}
			renderDatabaseView(cmd.OutOrStdout(), view, columns, opts.ChildLimit)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "limit number of entries to fetch")
	cmd.Flags().IntVarP(&columns, "columns", "c", 5, "number of columns to display")
	cmd.Flags().BoolVar(&opts.Children, "children", false, "fetch and display child content blocks")
	cmd.Flags().IntVar(&opts.ChildLimit, "child-limit", 5, "limit number of entries to show child content for")
	return cmd
}

func newDBCreateCommand(rt *runtime) *cobra.Command {
	var input service.CreateTicketsInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the Support Tickets database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.require(cmd, config.EngagementsDB); err != nil {
				return err
			}
			cfg := rt.session.Config
			if input.ParentPageID == "" {
				input.ParentPageID = cfg.Notion.ParentPageID
			}
			input.EngagementsDB = cfg.Notion.EngagementsDB
			result, err := rt.session.Databases().CreateTicketsDatabase(cmd.Context(), input)
			if notFound(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ui.Success.Render("✅ Support Tickets database created successfully!"))
			field(w, "Name", result.Database.Title)
			field(w, "Database ID", result.Database.ID)
			field(w, "URL", result.Database.URL)
			parent := result.ParentID
			if result.ParentTitle != "" {
				parent = result.ParentTitle + " (" + result.ParentID + ")"
			}
			field(w, "Parent page", parent)
			fmt.Fprintln(w, ui.Warning.Render("\nAdd this to your .env file:"))
			fmt.Fprintf(w, "%s=%s\n", config.TicketsDB, result.Database.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.ParentPageID, "parent", "", "page to create the database under (default: NOTION_PARENT_PAGE_ID or the first shared page)")
	cmd.Flags().StringVar(&input.Title, "title", "", "database title (default: Support Tickets)")
	return cmd
}

func newDBLocateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <identifier>",
		Short: "Show where a database lives in the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, matches, err := rt.session.Databases().Resolve(cmd.Context(), args[0])
			if notFound(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if matches > 1 {
				fmt.Fprintln(w, ui.Warning.Render(fmt.Sprintf("Found %d databases; showing the first.", matches)))
			}
			field(w, "Name", titleOrUntitled(db.Title))
			field(w, "ID", db.ID)
			field(w, "URL", db.URL)
			field(w, "Parent type", db.ParentType)
			if db.ParentPageID != "" {
				field(w, "Parent page", db.ParentPageID)
			}
			return nil
		},
	}
}

func titleOrUntitled(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}

func renderDatabaseView(w io.Writer, view *service.DatabaseView, columns, childLimit int) {
	db := view.Database
	if view.Matches > 1 {
		fmt.Fprintln(w, ui.Warning.Render(fmt.Sprintf("Found %d databases; using the first. Specify ID for exact match.", view.Matches)))
	}
	fmt.Fprintln(w, ui.Section.Render("\n📊 Database Information"))
	field(w, "Name", titleOrUntitled(db.Title))
	field(w, "ID", db.ID)
	field(w, "Created", db.CreatedTime.Local().Format(time.DateTime))
	field(w, "Last edited", db.LastEditedTime.Local().Format(time.DateTime))

	fmt.Fprintln(w, ui.Section.Render("\n📋 Properties:"))
	for _, p := range db.Properties {
		fmt.Fprintf(w, "  %s: %s\n", ui.Key.Render(p.Name), ui.Faint.Render(p.Type))
	}

	if len(view.Entries) == 0 {
		fmt.Fprintln(w, ui.Warning.Render("\nNo entries found in this database."))
		return
	}

	if columns <= 0 {
		columns = 5
	}
	names := make([]string, 0, columns)
	for _, p := range db.Properties {
		if len(names) == columns {
			break
		}
		names = append(names, p.Name)
	}

	fmt.Fprintln(w, ui.Section.Render(fmt.Sprintf("\n📝 Database Entries (%d items):", len(view.Entries))))
	rows := make([][]string, 0, len(view.Entries))
	for _, entry := range view.Entries {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = ui.Truncate(entry.Values[name], ui.CellWidth)
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(w, ui.Table(names, rows))

	if len(view.Content) == 0 {
		return
	}
	fmt.Fprintln(w, ui.Section.Render("\n📄 Child Content:"))
	for i, content := range view.Content {
		title := ""
		if len(names) > 0 {
			title = content.Entry.Values[names[0]]
		}
		if title == "" {
			title = fmt.Sprintf("Entry %d", i+1)
		}
		fmt.Fprintln(w, ui.Heading.Render(fmt.Sprintf("\n--- %s ---", title)))
		switch {
		case content.Err != nil:
			fmt.Fprintln(w, ui.Faint.Render("  (Could not fetch content: "+content.Err.Error()+")"))
		case len(content.Blocks) == 0:
			fmt.Fprintln(w, ui.Faint.Render("  (No content)"))
		default:
			for _, line := range ui.RenderBlocks(content.Blocks) {
				fmt.Fprintln(w, line)
			}
		}
	}
	if childLimit <= 0 {
		childLimit = 5
	}
	if extra := len(view.Entries) - childLimit; extra > 0 {
		fmt.Fprintln(w, ui.Faint.Render(fmt.Sprintf("\n... and %d more entries", extra)))
	}
}
