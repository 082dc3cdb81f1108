package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supportops/ticketsync/internal/auth"
	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/ui"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

func newTokenCommand(rt *runtime) *cobra.Command {
	var subject string
	var scopeNames []string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP sync trigger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.require(cmd, config.AuthJWTSecret); err != nil {
				return err
			}
			scopes := make([]auth.Scope, 0, len(scopeNames))
			for _, name := range scopeNames {
				scope, ok := auth.ParseScope(name)
				if !ok {
					return apperrors.NewValidationError(fmt.Sprintf("unknown scope %q", name), map[string]any{"allowed": auth.AllScopes})
				}
				scopes = append(scopes, scope)
			}
			token, expiresAt, err := rt.session.Tokens().GenerateToken(subject, scopes)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, token)
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Faint.Render("expires "+expiresAt.Local().Format("Jan 2, 2006 15:04 MST")))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "ops", "token subject")
	cmd.Flags().StringSliceVar(&scopeNames, "scope", []string{string(auth.ScopeSyncRun), string(auth.ScopeSyncRead)}, "scopes to grant")
	return cmd
}
