package handlers

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v3"

	"econatlas/internal/refresh"
)

// Refresher runs one end-to-end dataset refresh.
type Refresher interface {
	Refresh(ctx context.Context) refresh.Outcome
}

// RefreshHandler exposes the refresh pipeline and its derived artifact.
type RefreshHandler struct {
	refresher   Refresher
	summaryPath string
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(refresher Refresher, summaryPath string) *RefreshHandler {
	return &RefreshHandler{refresher: refresher, summaryPath: summaryPath}
}

// Refresh triggers a dataset refresh. Exactly one refresh runs at a time;
// a concurrent request gets 429 without touching any external system.
func (h *RefreshHandler) Refresh(c fiber.Ctx) error {
	outcome := h.refresher.Refresh(c.Context())

	switch outcome.Kind {
	case refresh.OutcomeOK:
		return jsonSuccess(c, fiber.Map{"message": "refresh completed"})
	case refresh.OutcomeConflict:
		return jsonError(c, fiber.StatusTooManyRequests, "refresh already in progress")
	default:
		return jsonError(c, fiber.StatusServiceUnavailable, outcome.Cause)
	}
}

// SummaryImage serves the cached summary artifact. A missing file is a 404
// here, never a dataset error.
func (h *RefreshHandler) SummaryImage(c fiber.Ctx) error {
	if _, err := os.Stat(h.summaryPath); err != nil {
		return jsonError(c, fiber.StatusNotFound, "summary image not generated yet")
	}
	return c.SendFile(h.summaryPath)
}
