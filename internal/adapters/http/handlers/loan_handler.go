package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/pagination"
	"pawnledger/internal/pkg/response"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
	rateService *services.InterestRateService
	clock       services.Clock
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, rateService *services.InterestRateService, clock services.Clock) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		rateService: rateService,
		clock:       clock,
	}
}

// List lists loans after sweeping overdue ones
// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Active, Paid or Overdue"
// @Param search query string false "Search by code, item, client or status"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	page, params := listParams(c)

	result, err := h.loanService.ListLoans(c.UserContext(), repositories.LoanFilter{
		ListParams: params,
		Status:     c.Query("status"),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"loans":    result.Loans,
		"statuses": result.Statuses,
		"meta":     pagination.GetMeta(page, result.Total),
	})
}

// Get returns one loan
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	code, err := uintParam(c, "code")
	if err != nil {
		return response.FromError(c, err)
	}

	loan, err := h.loanService.GetLoan(c.UserContext(), code)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", loan)
}

// Create originates a loan. The employee defaults to the caller.
// @Summary Create loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLoanInput true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var req services.CreateLoanInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if req.EmployeeID == 0 {
		if identity, err := middleware.CurrentIdentity(c); err == nil {
			req.EmployeeID = identity.EmployeeID
		}
	}

	loan, err := h.loanService.CreateLoan(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Loan created successfully", loan.ToResponse(h.today()))
}

// Pay settles an active loan
// @Summary Pay loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param code path int true "Loan code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{code}/pay [post]
func (h *LoanHandler) Pay(c *fiber.Ctx) error {
	code, err := uintParam(c, "code")
	if err != nil {
		return response.FromError(c, err)
	}

	loan, err := h.loanService.PayLoan(c.UserContext(), code)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan paid", loan.ToResponse(h.today()))
}

// Sweep moves matured active loans to Overdue
func (h *LoanHandler) Sweep(c *fiber.Ctx) error {
	count, err := h.loanService.SweepOverdue(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", fiber.Map{"transitioned": count})
}

// Autocomplete returns item hints for the new-loan form
func (h *LoanHandler) Autocomplete(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > pagination.MaxLimit {
		limit = 20
	}

	result, err := h.loanService.Autocomplete(c.UserContext(), c.Query("code"), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", result)
}

// Rates lists the interest rate table
func (h *LoanHandler) Rates(c *fiber.Ctx) error {
	rates, err := h.rateService.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", rates)
}

func (h *LoanHandler) today() time.Time {
	if h.clock == nil {
		return time.Now()
	}
	return h.clock()
}
