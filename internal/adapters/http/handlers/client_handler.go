package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"prestanet/internal/core/services"
	"prestanet/internal/pkg/pagination"
	"prestanet/internal/pkg/response"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *services.ClientService
	loanService   *services.LoanService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService, loanService *services.LoanService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		loanService:   loanService,
	}
}

// CreateClientRequest represents create client request
type CreateClientRequest struct {
	Name       string `json:"name"`
	DPI        string `json:"dpi,omitempty"`
	ClientCode string `json:"client_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

// Create creates a new client
// @Summary Create client
// @Description Register a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Param body body CreateClientRequest true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var req CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	client, err := h.clientService.Create(c.Context(), &services.CreateClientInput{
		Name:       req.Name,
		DPI:        req.DPI,
		ClientCode: req.ClientCode,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		if errors.Is(err, services.ErrNameRequired) {
			return response.BadRequest(c, "Client name is required")
		}
		return response.InternalServerError(c, "Failed to create client")
	}

	return response.Created(c, "Client created successfully", fiber.Map{
		"client": client,
	})
}

// List lists clients
// @Summary List clients
// @Description List all clients with pagination
// @Tags Clients
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	clients, total, err := h.clientService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list clients")
	}

	return response.Success(c, "Clients retrieved successfully", pagination.NewResponse(clients, params, total))
}

// GetByID gets a client by ID
// @Summary Get client by ID
// @Description Get a specific client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.clientService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to get client")
	}

	return response.Success(c, "Client retrieved successfully", fiber.Map{
		"client": client,
	})
}

// GetLoans lists a client's loans
// @Summary Get client loans
// @Description List all loans belonging to a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/loans [get]
func (h *ClientHandler) GetLoans(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.clientService.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to get client")
	}

	loans, err := h.loanService.ListByClient(c.Context(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	result := make([]interface{}, 0, len(loans))
	for _, l := range loans {
		result = append(result, l.ToResponse())
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": result,
	})
}

// UpdateClientRequest represents update client request
type UpdateClientRequest struct {
	Name       *string `json:"name,omitempty"`
	DPI        *string `json:"dpi,omitempty"`
	ClientCode *string `json:"client_code,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
}

// Update updates a client
// @Summary Update client
// @Description Update a client's details
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body UpdateClientRequest true "Client data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var req UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	client, err := h.clientService.Update(c.Context(), c.Params("id"), &services.UpdateClientInput{
		Name:       req.Name,
		DPI:        req.DPI,
		ClientCode: req.ClientCode,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, services.ErrNameRequired):
			return response.BadRequest(c, "Client name is required")
		default:
			return response.InternalServerError(c, "Failed to update client")
		}
	}

	return response.Success(c, "Client updated successfully", fiber.Map{
		"client": client,
	})
}

// Delete deletes a client
// @Summary Delete client
// @Description Delete a client without loans
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	err := h.clientService.Delete(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, services.ErrClientHasLoans):
			return response.Conflict(c, "Client still has loans")
		default:
			return response.InternalServerError(c, "Failed to delete client")
		}
	}

	return response.Success(c, "Client deleted successfully", nil)
}
