package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"prestanet/internal/core/services"
	"prestanet/internal/pkg/response"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns portfolio statistics
// @Summary Dashboard statistics
// @Description Portfolio-level figures: loan counts, amounts lent, collected and pending
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}

// GetUpcoming returns the collection agenda
// @Summary Upcoming payments
// @Description Unpaid installments due within the next days
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} response.Response
// @Router /dashboard/upcoming [get]
func (h *DashboardHandler) GetUpcoming(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "7"))

	payments, err := h.dashboardService.GetUpcomingPayments(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to get upcoming payments")
	}

	return response.Success(c, "Upcoming payments retrieved successfully", fiber.Map{
		"payments": payments,
	})
}
