package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/pagination"
)

// uintParam reads a positive numeric route parameter
func uintParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || v == 0 {
		return 0, domain.NewValidationError(name + " must be a positive number")
	}
	return uint(v), nil
}

// listParams converts the page/search/sort query into repository params
func listParams(c *fiber.Ctx) (*pagination.Params, repositories.ListParams) {
	p := pagination.GetParams(c)
	return p, repositories.ListParams{
		Search: p.Search,
		Sort:   p.Sort,
		Order:  p.Order,
		Offset: p.Offset,
		Limit:  p.Limit,
	}
}

// parseBody decodes the JSON body into out
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	return nil
}
