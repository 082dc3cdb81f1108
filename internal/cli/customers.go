package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/ui"
)

func newCustomersCommand(rt *runtime) *cobra.Command {
	var check bool
	var limit int
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List customers and their Freshdesk ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.require(cmd, config.NotionToken, config.EngagementsDB); err != nil {
				return err
			}
			svc := rt.session.Customers()
			w := cmd.OutOrStdout()
			if check {
				property := rt.session.Config.Schema.CustomerFreshdeskProperty
				result, err := svc.CheckFreshdeskField(cmd.Context(), property)
				if err != nil {
					return err
				}
				if !result.Exists {
					fmt.Fprintln(w, ui.Failure.Render(fmt.Sprintf("✗ Property %q not found in the customer database", property)))
					return nil
				}
				fmt.Fprintln(w, ui.Success.Render(fmt.Sprintf("✓ Property %q exists (%s)", property, result.Type)))
				fmt.Fprintf(w, "  %d customers have a value\n", result.Populated)
				return nil
			}

			customers, err := svc.ListCustomers(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(customers) == 0 {
				fmt.Fprintln(w, ui.Warning.Render("No customers found."))
				return nil
			}
			rows := make([][]string, 0, len(customers))
			for _, c := range customers {
				rows = append(rows, []string{ui.Truncate(c.DisplayName(), ui.CellWidth), c.HelpdeskCompanyID(), c.ID})
			}
			fmt.Fprintln(w, ui.Table([]string{"Company", "FD ID", "Page ID"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check that the Freshdesk id property exists")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "limit number of customers (0 for all)")
	return cmd
}

func newCompaniesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List Freshdesk companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.require(cmd, config.FreshdeskAPIKey, config.FreshdeskDomain); err != nil {
				return err
			}
			companies, err := rt.session.Customers().ListCompanies(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ui.Section.Render(fmt.Sprintf("Found %d companies", len(companies))))
			rows := make([][]string, 0, len(companies))
			for _, c := range companies {
				rows = append(rows, []string{c.Name, strconv.FormatInt(c.ID, 10)})
			}
			if len(rows) > 0 {
				fmt.Fprintln(w, ui.Table([]string{"Company", "FD ID"}, rows))
			}
			return nil
		},
	}
}
