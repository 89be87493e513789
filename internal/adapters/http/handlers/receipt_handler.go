package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"prestanet/internal/core/services"
	"prestanet/internal/pkg/response"
)

// ReceiptHandler handles receipt endpoints
type ReceiptHandler struct {
	receiptService *services.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Issue issues a receipt for a paid payment
// @Summary Issue receipt
// @Description Issue a numbered receipt for a paid payment
// @Tags Receipts
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param payment_id path string true "Payment ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/payments/{payment_id}/receipt [post]
func (h *ReceiptHandler) Issue(c *fiber.Ctx) error {
	receipt, err := h.receiptService.Issue(c.Context(), c.Params("id"), c.Params("payment_id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, services.ErrPaymentNotInLoan):
			return response.NotFound(c, "Payment does not belong to this loan")
		case errors.Is(err, services.ErrPaymentNotPaid):
			return response.BadRequest(c, "Receipts can only be issued for paid payments")
		default:
			return response.InternalServerError(c, "Failed to issue receipt")
		}
	}

	return response.Created(c, "Receipt issued successfully", fiber.Map{
		"receipt": receipt,
	})
}

// ListByLoan lists receipts for a loan
// @Summary List loan receipts
// @Description List all receipts issued against a loan
// @Tags Receipts
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/receipts [get]
func (h *ReceiptHandler) ListByLoan(c *fiber.Ctx) error {
	receipts, err := h.receiptService.ListByLoan(c.Context(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list receipts")
	}

	return response.Success(c, "Receipts retrieved successfully", fiber.Map{
		"receipts": receipts,
	})
}

// GetByID gets a receipt by ID
// @Summary Get receipt by ID
// @Description Get a specific receipt
// @Tags Receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	receipt, err := h.receiptService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			return response.NotFound(c, "Receipt not found")
		}
		return response.InternalServerError(c, "Failed to get receipt")
	}

	return response.Success(c, "Receipt retrieved successfully", fiber.Map{
		"receipt": receipt,
	})
}
