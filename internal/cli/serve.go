package cli

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/supportops/ticketsync/internal/api/http"
	"github.com/supportops/ticketsync/internal/api/http/handlers"
	"github.com/supportops/ticketsync/internal/auth"
	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/observability"
)

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve health, metrics and an authenticated sync trigger over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.require(cmd, append(syncSettings, config.AuthJWTSecret)...); err != nil {
				return err
			}
			ctx := cmd.Context()
			s := rt.session
			if s.Config.Logger.Encoding == "" {
				s.Config.Logger.Encoding = "json"
				s.Logger = observability.NewCLILogger(s.Config.Logger)
			}
			logger := s.Logger

			stores, err := s.OpenStores(ctx)
			if err != nil {
				return err
			}
			defer stores.Close()

			app := fiber.New(fiber.Config{AppName: s.Config.App.Name, DisableStartupMessage: true})
			httptransport.RegisterMiddlewares(app, logger, s.Metrics, s.Config.App.RequestTimeout())
			httptransport.RegisterRoutes(app, httptransport.RouteConfig{
				Health:         handlers.NewHealthHandler(s.Config.App.Name, s.Config.App.Version, stores.Postgres, stores.Redis),
				Sync:           handlers.NewSyncHandler(s.Sync(stores), logger),
				Metrics:        handlers.NewMetricsHandler(s.Metrics),
				AuthMiddleware: auth.NewAuthMiddleware(s.Tokens()),
			})

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", s.Config.App.Addr()))
				errCh <- app.Listen(s.Config.App.Addr())
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				return app.Shutdown()
			}
		},
	}
}
