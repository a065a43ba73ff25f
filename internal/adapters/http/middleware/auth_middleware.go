package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/core/access"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/response"
)

const (
	localEmployeeID = "employeeID"
	localIdentity   = "identity"
)

// AuthMiddleware creates authentication middleware. It only checks the
// session token; the employee row is re-read by RequirePermission.
func AuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Try to get token from cookie first
		accessToken := c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if accessToken == "" {
			return response.Unauthorized(c, "access token required")
		}

		employeeID, err := auth.ParseToken(accessToken)
		if err != nil {
			return response.FromError(c, err)
		}

		c.Locals(localEmployeeID, employeeID)
		return c.Next()
	}
}

// RequirePermission resolves the caller against the live employee table and
// checks perm. Dismissed or deleted employees are refused.
func RequirePermission(gate *access.Gate, perm access.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		employeeID, ok := c.Locals(localEmployeeID).(uint)
		if !ok {
			return response.Unauthorized(c, "unauthorized")
		}

		identity, err := gate.Authorize(c.UserContext(), employeeID, perm)
		if err != nil {
			return response.FromError(c, err)
		}

		c.Locals(localIdentity, identity)
		return c.Next()
	}
}

// RequireActive admits any current employee regardless of role
func RequireActive(gate *access.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		employeeID, ok := c.Locals(localEmployeeID).(uint)
		if !ok {
			return response.Unauthorized(c, "unauthorized")
		}

		identity, err := gate.Identify(c.UserContext(), employeeID)
		if err != nil {
			return response.FromError(c, err)
		}

		c.Locals(localIdentity, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the caller stored by RequirePermission
func CurrentIdentity(c *fiber.Ctx) (*access.Identity, error) {
	identity, ok := c.Locals(localIdentity).(*access.Identity)
	if !ok {
		return nil, domain.ErrInactiveAccount
	}
	return identity, nil
}

// CurrentEmployeeID returns the employee ID carried by the session token
func CurrentEmployeeID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(localEmployeeID).(uint)
	return id, ok
}
