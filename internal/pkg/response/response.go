package response

import (
	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"
)

// Response represents a standard API response
type Response struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    interface{}      `json:"data,omitempty"`
	Kind    domain.ErrorKind `json:"kind,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, kind domain.ErrorKind, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Kind:    kind,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, domain.KindValidation, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, domain.KindUnauthorized, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, domain.KindNotFound, message)
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindRejected, domain.KindInformational:
		return fiber.StatusConflict
	case domain.KindIntegrity:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError sends the response for a service error. Internal causes are
// logged and never shown to the client.
func FromError(c *fiber.Ctx, err error) error {
	appErr := domain.GetAppError(err)
	if appErr == nil {
		appErr = domain.NewInternalError("internal error", err)
	}

	status := StatusFor(appErr.Kind)
	if status >= fiber.StatusInternalServerError {
		logger.WithComponent("http").Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return Error(c, status, appErr.Kind, appErr.Message)
}
