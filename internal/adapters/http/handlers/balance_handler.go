package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"prestanet/internal/core/services"
	"prestanet/internal/pkg/pagination"
	"prestanet/internal/pkg/response"
)

// BalanceHandler handles balance ledger endpoints
type BalanceHandler struct {
	balanceService *services.BalanceService
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(balanceService *services.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// CreateEntryRequest represents create balance entry request
type CreateEntryRequest struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   string          `json:"entry_date"`
}

// Create records a balance entry
// @Summary Create balance entry
// @Description Record an asset or liability entry
// @Tags Balance
// @Accept json
// @Produce json
// @Param body body CreateEntryRequest true "Entry data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /balance [post]
func (h *BalanceHandler) Create(c *fiber.Ctx) error {
	var req CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.balanceService.Create(c.Context(), services.CreateEntryInput{
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		EntryDate:   req.EntryDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEntryType),
			errors.Is(err, services.ErrInvalidEntryAmount),
			errors.Is(err, services.ErrInvalidDate):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create entry")
		}
	}

	return response.Created(c, "Entry created successfully", fiber.Map{
		"entry": entry,
	})
}

// List lists balance entries
// @Summary List balance entries
// @Description List balance entries with pagination and an optional type filter
// @Tags Balance
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param type query string false "Filter by type" Enums(asset, liability)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /balance [get]
func (h *BalanceHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.balanceService.List(c.Context(), c.Query("type"), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEntryType) {
			return response.BadRequest(c, "Invalid type filter")
		}
		return response.InternalServerError(c, "Failed to list entries")
	}

	return response.Success(c, "Entries retrieved successfully", pagination.NewResponse(entries, params, total))
}

// Summary returns the balance summary
// @Summary Balance summary
// @Description Total assets, liabilities and net position
// @Tags Balance
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /balance/summary [get]
func (h *BalanceHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.balanceService.Summary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute summary")
	}

	return response.Success(c, "Summary retrieved successfully", summary)
}

// Delete removes a balance entry
// @Summary Delete balance entry
// @Description Delete a balance entry
// @Tags Balance
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /balance/{id} [delete]
func (h *BalanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.balanceService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrBalanceEntryNotFound) {
			return response.NotFound(c, "Entry not found")
		}
		return response.InternalServerError(c, "Failed to delete entry")
	}

	return response.Success(c, "Entry deleted successfully", nil)
}
