// Package cli implements the ticketsync commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supportops/ticketsync/internal/app"
	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/observability"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

// errReported marks failures whose message was already printed.
var errReported = errors.New("reported")

type runtime struct {
	session *app.Session
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:           "ticketsync",
		Short:         "Mirror helpdesk tickets into the Notion workspace",
		Long:          "ticketsync keeps the Support Tickets database in Notion in step with active Freshdesk tickets and offers helpers to inspect and edit the workspace.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rt.session = app.NewSession(cfg, observability.NewCLILogger(cfg.Logger))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.session != nil {
				_ = rt.session.Logger.Sync()
			}
		},
	}

	root.AddCommand(
		newSyncCommand(rt),
		newTicketsCommand(rt),
		newDBCommand(rt),
		newCustomersCommand(rt),
		newCompaniesCommand(rt),
		newServeCommand(rt),
		newTokenCommand(rt),
	)
	return root
}

// Execute runs the command tree and prints any unreported error to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		printError(stderr, err)
	}
	return err
}

// require prints the enumerated missing settings and fails when any of
// names is unset.
func (rt *runtime) require(cmd *cobra.Command, names ...string) error {
	err := rt.session.Config.Require(names...)
	var missing *config.MissingSettingsError
	if !errors.As(err, &missing) {
		return err
	}
	printMissing(cmd.ErrOrStderr(), missing.Names)
	return errReported
}

// notFound prints a lookup miss. Misses are not failures.
func notFound(cmd *cobra.Command, err error) bool {
	if !apperrors.IsNotFound(err) {
		return false
	}
	fmt.Fprintln(cmd.OutOrStdout(), warnLine(apperrors.ToDomainError(err)))
	return true
}
