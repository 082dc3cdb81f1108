package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/api/http/handlers"
	"github.com/supportops/ticketsync/internal/auth"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/observability"
	"github.com/supportops/ticketsync/internal/service"
)

type stubRunner struct {
	report *domain.SyncReport
	err    error
	runs   []domain.SyncReport
	limit  int
}

func (s *stubRunner) Run(_ context.Context, trigger string) (*domain.SyncReport, error) {
	if s.report != nil {
		s.report.Trigger = trigger
	}
	return s.report, s.err
}

func (s *stubRunner) History(_ context.Context, limit int) ([]domain.SyncReport, error) {
	s.limit = limit
	return s.runs, nil
}

func (s *stubRunner) RunByID(_ context.Context, id string) (*domain.SyncReport, error) {
	for i := range s.runs {
		if s.runs[i].RunID == id {
			return &s.runs[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(t *testing.T, runner *stubRunner) (*fiber.App, *auth.TokenManager, *observability.Metrics) {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager("test-secret", 5)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("ticketsync", "test", nil, nil),
		Sync:           handlers.NewSyncHandler(runner, logger),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return app, tokens, metrics
}

func bearer(t *testing.T, tokens *auth.TokenManager, scopes ...auth.Scope) string {
	t.Helper()
	token, _, err := tokens.GenerateToken("ops", scopes)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func do(t *testing.T, app *fiber.App, method, target, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, target, raw, err)
		}
	}
	return resp.StatusCode, body
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthReportsDisabledStores(t *testing.T) {
	app, _, _ := newTestApp(t, &stubRunner{})

	status, body := do(t, app, fiber.MethodGet, "/health/live", "")
	if status != fiber.StatusOK || body["status"] != "alive" {
		t.Fatalf("live = %d %v", status, body)
	}

	status, body = do(t, app, fiber.MethodGet, "/health/ready", "")
	if status != fiber.StatusOK {
		t.Fatalf("ready status = %d, body %v", status, body)
	}
	deps, _ := body["dependencies"].(map[string]any)
	if deps["postgres"] != "disabled" || deps["redis"] != "disabled" {
		t.Fatalf("dependencies = %v", deps)
	}
}

func TestTriggerSyncAuthorization(t *testing.T) {
	runner := &stubRunner{report: &domain.SyncReport{RunID: "run-1", Status: domain.SyncRunCompleted, TotalCreated: 3}}
	app, tokens, _ := newTestApp(t, runner)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "no token", header: "", status: fiber.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "garbage token", header: "Bearer nope", status: fiber.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "read only", header: bearer(t, tokens, auth.ScopeSyncRead), status: fiber.StatusForbidden, code: "FORBIDDEN"},
		{name: "run scope", header: bearer(t, tokens, auth.ScopeSyncRun), status: fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, app, fiber.MethodPost, "/api/v1/sync", tc.header)
			if status != tc.status {
				t.Fatalf("status = %d, want %d (body %v)", status, tc.status, body)
			}
			if tc.code != "" && errorCode(body) != tc.code {
				t.Fatalf("error code = %q, want %q", errorCode(body), tc.code)
			}
			if tc.code == "" {
				data, _ := body["data"].(map[string]any)
				if data["run_id"] != "run-1" || data["trigger"] != domain.TriggerHTTP {
					t.Fatalf("data = %v", data)
				}
			}
		})
	}
}

func TestTriggerSyncConflict(t *testing.T) {
	app, tokens, _ := newTestApp(t, &stubRunner{err: service.ErrSyncInProgress})

	status, body := do(t, app, fiber.MethodPost, "/api/v1/sync", bearer(t, tokens, auth.ScopeSyncRun))
	if status != fiber.StatusConflict || errorCode(body) != "CONFLICT" {
		t.Fatalf("got %d %v", status, body)
	}
}

func TestSyncRunsEndpoints(t *testing.T) {
	runner := &stubRunner{runs: []domain.SyncReport{
		{RunID: "run-2", Status: domain.SyncRunPartial},
		{RunID: "run-1", Status: domain.SyncRunCompleted},
	}}
	app, tokens, _ := newTestApp(t, runner)
	header := bearer(t, tokens, auth.ScopeSyncRead)

	status, body := do(t, app, fiber.MethodGet, "/api/v1/sync/runs?limit=500", header)
	if status != fiber.StatusOK {
		t.Fatalf("runs status = %d", status)
	}
	if items, _ := body["data"].([]any); len(items) != 2 {
		t.Fatalf("runs = %v", body["data"])
	}
	if runner.limit != 50 {
		t.Fatalf("limit passed = %d, want capped 50", runner.limit)
	}

	status, body = do(t, app, fiber.MethodGet, "/api/v1/sync/runs?limit=abc", header)
	if status != fiber.StatusBadRequest || errorCode(body) != "VALIDATION_FAILED" {
		t.Fatalf("bad limit = %d %v", status, body)
	}

	status, body = do(t, app, fiber.MethodGet, "/api/v1/sync/runs/run-1", header)
	if status != fiber.StatusOK {
		t.Fatalf("run status = %d", status)
	}
	if data, _ := body["data"].(map[string]any); data["status"] != string(domain.SyncRunCompleted) {
		t.Fatalf("run = %v", data)
	}

	status, body = do(t, app, fiber.MethodGet, "/api/v1/sync/runs/missing", header)
	if status != fiber.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Fatalf("missing run = %d %v", status, body)
	}
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	app, _, metrics := newTestApp(t, &stubRunner{})

	status, body := do(t, app, fiber.MethodGet, "/nope", "")
	if status != fiber.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Fatalf("unknown route = %d %v", status, body)
	}

	do(t, app, fiber.MethodGet, "/health/live", "")
	status, body = do(t, app, fiber.MethodGet, "/metrics", "")
	if status != fiber.StatusOK {
		t.Fatalf("metrics status = %d", status)
	}
	if _, ok := body["requests"].(map[string]any); !ok {
		t.Fatalf("metrics body = %v", body)
	}
	if snap := metrics.Snapshot(); snap.Requests["/health/live|GET|200"] != 1 {
		t.Fatalf("requests = %v", snap.Requests)
	}
}
