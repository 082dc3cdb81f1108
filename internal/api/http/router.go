package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/supportops/ticketsync/internal/api/http/handlers"
	"github.com/supportops/ticketsync/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sync           *handlers.SyncHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Show)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	syncGroup := api.Group("/sync")
	syncGroup.Post("", auth.RequireScope(auth.ScopeSyncRun), cfg.Sync.Trigger)
	syncGroup.Get("/runs", auth.RequireScope(auth.ScopeSyncRead), cfg.Sync.ListRuns)
	syncGroup.Get("/runs/:id", auth.RequireScope(auth.ScopeSyncRead), cfg.Sync.GetRun)
}
