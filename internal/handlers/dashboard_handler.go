package handlers

import (
	"nexusstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the overview stats.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
	}
}

// RegisterRoutes registers the dashboard routes with the Fiber app.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleOverview)
}

// HandleOverview returns the composed dashboard statistics.
func (h *DashboardHandler) HandleOverview(c *fiber.Ctx) error {
	return c.JSON(h.dashboard.Overview())
}
