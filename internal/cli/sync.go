package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/events"
	"github.com/supportops/ticketsync/internal/ui"
)

var syncSettings = []string{
	config.NotionToken,
	config.FreshdeskAPIKey,
	config.FreshdeskDomain,
	config.EngagementsDB,
	config.TicketsDB,
}

func newSyncCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror active helpdesk tickets into the Support Tickets database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.require(cmd, syncSettings...); err != nil {
				return err
			}
			ctx := cmd.Context()
			stores, err := rt.session.OpenStores(ctx)
			if err != nil {
				return err
			}
			defer stores.Close()

			out := cmd.OutOrStdout()
			svc := rt.session.Sync(stores, progressPrinter{out: out})

			fmt.Fprintln(out, ui.Section.Render("Starting FreshDesk to Notion sync..."))
			report, err := svc.Run(ctx, domain.TriggerCLI)
			if report == nil {
				return err
			}
			printSyncSummary(out, report)
			if err != nil {
				return errReported
			}
			return nil
		},
	}
}

// progressPrinter prints one block of lines per customer as the run
// publishes its events.
type progressPrinter struct {
	out io.Writer
}

// Attach implements worker.Subscriber.
func (pr progressPrinter) Attach(d events.Dispatcher) {
	out := pr.out
	d.Subscribe(events.EventSyncCustomerStarted, func(_ context.Context, e events.Event) error {
		p, ok := e.Payload.(events.CustomerStartedPayload)
		if !ok {
			return nil
		}
		fmt.Fprintln(out, ui.Label.Bold(true).Render(fmt.Sprintf("\nProcessing %s (FD ID: %s) [%d/%d]...", p.Name, p.CompanyID, p.Index, p.Total)))
		return nil
	})
	d.Subscribe(events.EventSyncCustomerCompleted, func(_ context.Context, e events.Event) error {
		p, ok := e.Payload.(events.CustomerResultPayload)
		if !ok {
			return nil
		}
		printCustomerResult(out, p.Result)
		return nil
	})
	d.Subscribe(events.EventSyncCustomerFailed, func(_ context.Context, e events.Event) error {
		p, ok := e.Payload.(events.CustomerResultPayload)
		if !ok {
			return nil
		}
		fmt.Fprintln(out, ui.Failure.Render(fmt.Sprintf("  Error processing %s: %s", p.Result.Name, p.Result.Error)))
		return nil
	})
}

func printCustomerResult(out io.Writer, r domain.CustomerSyncResult) {
	fmt.Fprintf(out, "  Found %d tickets, %d active\n", r.Fetched, r.Eligible)
	if r.Archived > 0 {
		fmt.Fprintln(out, ui.Warning.Render(fmt.Sprintf("  Archived %d existing tickets for %s", r.Archived, r.Name)))
	}
	if r.Eligible == 0 {
		fmt.Fprintln(out, ui.Faint.Render("  No active tickets to sync"))
	} else {
		fmt.Fprintln(out, ui.Success.Render(fmt.Sprintf("  ✓ Created %d tickets", r.Created)))
	}
	if !r.Annotated {
		fmt.Fprintln(out, ui.Warning.Render("  Could not update timestamp on customer page"))
	}
}

func printSyncSummary(out io.Writer, report *domain.SyncReport) {
	if report.Error != "" {
		fmt.Fprintln(out, ui.Failure.Render("\n❌ Sync failed: "+report.Error))
		if report.TotalCreated > 0 {
			fmt.Fprintf(out, "Created %d tickets before the run stopped.\n", report.TotalCreated)
		}
		return
	}
	fmt.Fprintln(out, ui.Section.Render(fmt.Sprintf("\n✅ Sync complete! Created %d total tickets.", report.TotalCreated)))
	if report.Failed > 0 {
		fmt.Fprintln(out, ui.Failure.Render(fmt.Sprintf("%d customers failed; re-run sync once the cause is fixed.", report.Failed)))
	}
	fmt.Fprintln(out, ui.Warning.Render("\n📍 Next steps:"))
	fmt.Fprintln(out, "1. Go to each customer page in Notion")
	fmt.Fprintln(out, `2. You'll see the "Support Tickets (Last updated: ...)" text`)
	fmt.Fprintln(out, "3. Add a linked database view of Support Tickets right below that text")
	fmt.Fprintln(out, "4. Filter the view to show only tickets for that customer")
	fmt.Fprintln(out, "5. The ticket titles are clickable links to FreshDesk!")
}
