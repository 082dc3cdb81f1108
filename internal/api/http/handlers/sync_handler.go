package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/auth"
	"github.com/supportops/ticketsync/internal/domain"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 50
)

// SyncRunner is the part of the sync service exposed over HTTP.
type SyncRunner interface {
	Run(ctx context.Context, trigger string) (*domain.SyncReport, error)
	History(ctx context.Context, limit int) ([]domain.SyncReport, error)
	RunByID(ctx context.Context, id string) (*domain.SyncReport, error)
}

// SyncHandler triggers sync runs and exposes their history.
type SyncHandler struct {
	runner SyncRunner
	logger *zap.Logger
}

// NewSyncHandler constructs handler.
func NewSyncHandler(runner SyncRunner, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{runner: runner, logger: logger}
}

// Trigger POST /api/v1/sync. The run executes within the request; a run that
// fails after it started still answers 200 with its report.
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	subject := ""
	if claims, ok := auth.ClaimsFromContext(c); ok {
		subject = claims.Subject
	}
	h.logger.Info("sync triggered", zap.String("subject", subject))

	report, err := h.runner.Run(c.UserContext(), domain.TriggerHTTP)
	if report == nil {
		if err == nil {
			err = apperrors.NewInternalError(nil)
		}
		return err
	}
	if err != nil {
		h.logger.Warn("sync run ended with error", zap.String("run_id", report.RunID), zap.Error(err))
	}
	return c.JSON(fiber.Map{"data": report})
}

// ListRuns GET /api/v1/sync/runs.
func (h *SyncHandler) ListRuns(c *fiber.Ctx) error {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.NewValidationError("limit must be a positive integer", map[string]any{"limit": raw})
		}
		limit = min(parsed, maxRunsLimit)
	}
	runs, err := h.runner.History(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []domain.SyncReport{}
	}
	return c.JSON(fiber.Map{"data": runs})
}

// GetRun GET /api/v1/sync/runs/:id.
func (h *SyncHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.runner.RunByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": run})
}
