package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"
)

// EmployeeHandler handles staff endpoints
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// List lists employees
// @Summary List employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param status query string false "active or dismissed"
// @Param search query string false "Search by name, phone or login"
// @Success 200 {object} response.Response
// @Router /employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	page, params := listParams(c)

	result, err := h.employeeService.List(c.UserContext(), repositories.EmployeeFilter{
		ListParams: params,
		Role:       c.Query("role"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"employees": result.Employees,
		"roles":     result.Roles,
		"meta":      pagination.GetMeta(page, result.Total),
	})
}

// Get returns one employee
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	employee, err := h.employeeService.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", employee.ToResponse())
}

// Create adds an employee
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EmployeeInput true "Employee data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req services.EmployeeInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	employee, err := h.employeeService.Create(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Employee created successfully", employee.ToResponse())
}

// Update edits an employee
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.EmployeeInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	employee, err := h.employeeService.Update(c.UserContext(), id, &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Employee updated successfully", employee.ToResponse())
}

// Dismiss terminates an employee as of today
// @Summary Dismiss employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /employees/{id}/dismiss [post]
func (h *EmployeeHandler) Dismiss(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	employee, err := h.employeeService.Dismiss(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Employee dismissed", employee.ToResponse())
}
