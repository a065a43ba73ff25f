package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"
)

// UnclaimedHandler handles unclaimed item endpoints
type UnclaimedHandler struct {
	unclaimedService *services.UnclaimedService
}

// NewUnclaimedHandler creates a new unclaimed item handler
func NewUnclaimedHandler(unclaimedService *services.UnclaimedService) *UnclaimedHandler {
	return &UnclaimedHandler{unclaimedService: unclaimedService}
}

// List lists unclaimed items
// @Summary List unclaimed items
// @Tags Unclaimed
// @Produce json
// @Security BearerAuth
// @Param min_price query string false "Lowest estimated value"
// @Param max_price query string false "Highest estimated value"
// @Param unsold query bool false "Only items without a sale"
// @Success 200 {object} response.Response
// @Router /unclaimed [get]
func (h *UnclaimedHandler) List(c *fiber.Ctx) error {
	page, params := listParams(c)
	filter := repositories.UnclaimedFilter{
		ListParams: params,
		UnsoldOnly: c.QueryBool("unsold"),
	}

	var err error
	if filter.MinPrice, err = priceQuery(c, "min_price"); err != nil {
		return response.FromError(c, err)
	}
	if filter.MaxPrice, err = priceQuery(c, "max_price"); err != nil {
		return response.FromError(c, err)
	}

	result, err := h.unclaimedService.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", pagination.NewResponse(result.Items, page, result.Total))
}

// Get returns one unclaimed item
func (h *UnclaimedHandler) Get(c *fiber.Ctx) error {
	article, err := uintParam(c, "article")
	if err != nil {
		return response.FromError(c, err)
	}

	item, err := h.unclaimedService.Get(c.UserContext(), article)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", item)
}

// Convertible lists overdue loans that can still be converted
func (h *UnclaimedHandler) Convertible(c *fiber.Ctx) error {
	loans, err := h.unclaimedService.ListConvertible(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", loans)
}

// Convert turns an overdue loan into an unclaimed item
// @Summary Convert overdue loan
// @Tags Unclaimed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ConvertInput true "Loan code and estimated value"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /unclaimed [post]
func (h *UnclaimedHandler) Convert(c *fiber.Ctx) error {
	var req services.ConvertInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	item, err := h.unclaimedService.ConvertToUnclaimed(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Item moved to unclaimed inventory", item.ToResponse(false))
}

func priceQuery(c *fiber.Ctx, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := services.ParseDecimal(name, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
