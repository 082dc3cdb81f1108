package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/repository"
	"github.com/supportops/ticketsync/internal/service"
	"github.com/supportops/ticketsync/internal/ui"
)

var ticketSettings = []string{config.NotionToken, config.TicketsDB, config.EngagementsDB}

func newTicketsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage support tickets in Notion",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return rt.require(cmd, ticketSettings...)
		},
	}
	cmd.AddCommand(newTicketsListCommand(rt), newTicketsCustomerCommand(rt), newTicketsAddCommand(rt))
	return cmd
}

func newTicketsListCommand(rt *runtime) *cobra.Command {
	var status string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the newest tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := rt.session.Tickets().ListTickets(cmd.Context(), domain.TicketFilter{Status: status, Limit: limit})
			if err != nil {
				return err
			}
			renderTicketRows(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (Open, In Progress, Resolved, Closed)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "limit number of tickets")
	return cmd
}

func newTicketsCustomerCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "customer <name>",
		Short: "List tickets for a specific customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.session.Tickets().CustomerTickets(cmd.Context(), args[0])
			if notFound(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}
			renderCustomerTickets(cmd.OutOrStdout(), args[0], result)
			return nil
		},
	}
}

func newTicketsAddCommand(rt *runtime) *cobra.Command {
	var input service.TicketAddInput
	cmd := &cobra.Command{
		Use:   "add <customer> <summary>",
		Short: "Add a new ticket for a customer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Customer, input.Summary = args[0], args[1]
			result, err := rt.session.Tickets().AddTicket(cmd.Context(), input)
			if notFound(cmd, err) {
				return nil
			}
			if err != nil {
				return err
			}
			renderAddedTicket(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.TicketID, "ticket-id", "t", "", "ticket ID (default: auto-generated)")
	cmd.Flags().StringVarP(&input.Status, "status", "s", "Open", "ticket status")
	cmd.Flags().StringVarP(&input.Priority, "priority", "p", "Medium", "ticket priority")
	cmd.Flags().StringVarP(&input.FreshdeskID, "freshdesk", "f", "", "FreshDesk ticket ID")
	cmd.Flags().StringVar(&input.Tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVarP(&input.Assignee, "assignee", "a", "", "assignee (requires Notion user ID)")
	return cmd
}

func assigneeOf(t domain.MirroredTicket) string {
	if t.Assignee != "" {
		return t.Assignee
	}
	return t.Agent
}

func renderTicketRows(w io.Writer, rows []service.TicketRow) {
	fmt.Fprintln(w, ui.Success.Render(fmt.Sprintf("✔ Found %d tickets", len(rows))))
	if len(rows) == 0 {
		fmt.Fprintln(w, ui.Warning.Render("No tickets found."))
		return
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		t := row.Ticket
		cells = append(cells, []string{
			ui.Cut(t.Key, 30),
			ui.Cut(row.CustomerName, 25),
			ui.Status(t.Status),
			ui.Priority(t.Priority),
			ui.Cut(assigneeOf(t), 20),
			t.Display[repository.PropCreatedDate],
		})
	}
	fmt.Fprintln(w, ui.Table([]string{"Ticket ID", "Customer", "Status", "Priority", "Assignee", "Created"}, cells))
}

func renderCustomerTickets(w io.Writer, query string, result *service.CustomerTickets) {
	if len(result.Matches) > 1 {
		fmt.Fprintln(w, ui.Warning.Render(fmt.Sprintf("Found %d customers matching %q", len(result.Matches), query)))
		for _, c := range result.Matches {
			fmt.Fprintf(w, "  • %s\n", c.DisplayName())
		}
		fmt.Fprintln(w, ui.Label.Render("Using the first one."))
	}
	fmt.Fprintln(w, ui.Success.Render(fmt.Sprintf("✔ Found %d tickets for %s", len(result.Tickets), result.Customer.DisplayName())))
	if len(result.Tickets) == 0 {
		fmt.Fprintln(w, ui.Warning.Render("No tickets found for this customer."))
		return
	}
	cells := make([][]string, 0, len(result.Tickets))
	for _, t := range result.Tickets {
		cells = append(cells, []string{
			ui.Cut(t.Key, 30),
			ui.Status(t.Status),
			ui.Priority(t.Priority),
			ui.Cut(assigneeOf(t), 20),
			t.Display[repository.PropCreatedDate],
			ui.Cut(t.Summary, ui.CellWidth),
		})
	}
	fmt.Fprintln(w, ui.Table([]string{"Ticket ID", "Status", "Priority", "Assignee", "Created", "Summary"}, cells))
}

func renderAddedTicket(w io.Writer, result *service.TicketAddResult) {
	if result.AssigneeIgnored {
		fmt.Fprintln(w, ui.Warning.Render("Note: Assignee field requires Notion user ID"))
	}
	fmt.Fprintln(w, ui.Success.Render("✔ Ticket created successfully!"))
	fmt.Fprintln(w, ui.Success.Render("✓ Ticket Details:"))
	field(w, "  Customer", result.Customer.DisplayName())
	field(w, "  Ticket ID", result.Ticket.Key)
	field(w, "  Summary", result.Ticket.Summary)
	field(w, "  Status", result.Ticket.Status)
	field(w, "  Priority", result.Ticket.Priority)
}
