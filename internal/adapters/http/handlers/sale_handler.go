package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	saleService *services.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List lists sales
// @Summary List sales
// @Tags Sales
// @Produce json
// @Security BearerAuth
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page, params := listParams(c)
	filter := repositories.SaleFilter{ListParams: params}

	var err error
	if filter.DateFrom, err = dateQuery(c, "date_from"); err != nil {
		return response.FromError(c, err)
	}
	if filter.DateTo, err = dateQuery(c, "date_to"); err != nil {
		return response.FromError(c, err)
	}

	result, err := h.saleService.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", pagination.NewResponse(result.Sales, page, result.Total))
}

// Get returns one sale
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	code, err := uintParam(c, "code")
	if err != nil {
		return response.FromError(c, err)
	}

	sale, err := h.saleService.Get(c.UserContext(), code)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", sale)
}

// Create records the sale of an unclaimed item
// @Summary Record sale
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordSaleInput true "Sale data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req services.RecordSaleInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	sale, err := h.saleService.RecordSale(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Sale recorded successfully", sale.ToResponse())
}

// Unsold lists items available for sale
func (h *SaleHandler) Unsold(c *fiber.Ctx) error {
	items, err := h.saleService.ListUnsold(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", items)
}

// Sellers lists the employees who may record a sale
func (h *SaleHandler) Sellers(c *fiber.Ctx) error {
	sellers, err := h.saleService.ListSellers(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", sellers)
}

func dateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := services.ParseDate(name, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
