package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List lists clients
// @Summary List clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by id, name or phone"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	page, params := listParams(c)

	clients, total, err := h.clientService.List(c.UserContext(), params)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", pagination.NewResponse(clients, page, total))
}

// Get returns one client
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	client, err := h.clientService.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", client)
}

// Create adds a client
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ClientInput true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var req services.ClientInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	client, err := h.clientService.Create(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Client created successfully", client)
}

// Update edits a client
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ClientInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	client, err := h.clientService.Update(c.UserContext(), id, &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Client updated successfully", client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.clientService.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Client deleted successfully", nil)
}
