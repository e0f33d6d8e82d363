package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"OilLens/internal/dashboard"
)

type HealthHandler struct {
	svc       *dashboard.Service
	startTime time.Time
}

func NewHealthHandler(svc *dashboard.Service) *HealthHandler {
	return &HealthHandler{svc: svc, startTime: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "oillens",
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready. It reports 503 until a snapshot is published.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	snap := h.svc.Snapshot()
	if snap == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "loading",
		})
	}
	return c.JSON(fiber.Map{
		"status":    "ready",
		"version":   snap.Version,
		"points":    snap.Series.Len(),
		"forecast":  snap.Forecast.Len(),
		"loaded_at": snap.LoadedAt,
		"report":    snap.Report,
	})
}
