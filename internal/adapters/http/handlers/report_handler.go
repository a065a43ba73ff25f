package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/response"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Quarterly returns loan and sale totals for one quarter
// @Summary Quarterly report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param year query int true "Year"
// @Param quarter query int true "Quarter 1-4"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/quarterly [get]
func (h *ReportHandler) Quarterly(c *fiber.Ctx) error {
	year := c.QueryInt("year", 0)
	quarter := c.QueryInt("quarter", 0)
	if year == 0 || quarter == 0 {
		return response.FromError(c, domain.NewValidationError("year and quarter are required"))
	}

	report, err := h.reportService.Quarterly(c.UserContext(), year, quarter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", report)
}

// StatusBreakdown returns loan counts per status
func (h *ReportHandler) StatusBreakdown(c *fiber.Ctx) error {
	rows, err := h.reportService.StatusBreakdown(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", rows)
}

// Periods returns the years and quarters holding data
func (h *ReportHandler) Periods(c *fiber.Ctx) error {
	periods, err := h.reportService.AvailablePeriods(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", periods)
}
