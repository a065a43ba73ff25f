package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
)

// ReportService builds quarterly and status reports
type ReportService struct {
	loanRepo repositories.LoanRepository
	saleRepo repositories.SaleRepository
	clock    Clock
}

// NewReportService creates a new report service
func NewReportService(loanRepo repositories.LoanRepository, saleRepo repositories.SaleRepository, clock Clock) *ReportService {
	return &ReportService{
		loanRepo: loanRepo,
		saleRepo: saleRepo,
		clock:    clock,
	}
}

// QuarterlyReport summarises loans originated and sales made in one quarter
type QuarterlyReport struct {
	Year            int             `json:"year"`
	Quarter         int             `json:"quarter"`
	TotalLoans      int             `json:"total_loans"`
	TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
	PaidLoans       int             `json:"paid_loans"`
	OverdueLoans    int             `json:"overdue_loans"`
	TotalSales      int             `json:"total_sales"`
	SalesAmount     decimal.Decimal `json:"sales_amount"` // sum of estimated values of sold items
}

// QuarterBounds returns the first and last day of a quarter
func QuarterBounds(year, quarter int) (time.Time, time.Time) {
	first := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 3, -1)
	return first, last
}

// Quarterly builds the report for year and quarter (1-4)
func (s *ReportService) Quarterly(ctx context.Context, year, quarter int) (*QuarterlyReport, error) {
	if quarter < 1 || quarter > 4 {
		return nil, domain.NewValidationError("quarter must be between 1 and 4")
	}
	if year < 1 {
		return nil, domain.NewValidationError("year must be a positive number")
	}

	from, to := QuarterBounds(year, quarter)
	loans, err := s.loanRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, storeError(err)
	}
	sales, err := s.saleRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, storeError(err)
	}

	report := &QuarterlyReport{
		Year:            year,
		Quarter:         quarter,
		TotalLoans:      len(loans),
		TotalLoanAmount: decimal.Zero,
		TotalSales:      len(sales),
		SalesAmount:     decimal.Zero,
	}
	for _, loan := range loans {
		report.TotalLoanAmount = report.TotalLoanAmount.Add(loan.Principal)
		switch domain.LoanStatus(loan.Status) {
		case domain.LoanStatusPaid:
			report.PaidLoans++
		case domain.LoanStatusOverdue:
			report.OverdueLoans++
		}
	}
	for _, sale := range sales {
		if sale.Item != nil {
			report.SalesAmount = report.SalesAmount.Add(sale.Item.EstimatedValue)
		}
	}
	return report, nil
}

// StatusBreakdown counts loans per status
func (s *ReportService) StatusBreakdown(ctx context.Context) ([]repositories.StatusCount, error) {
	rows, err := s.loanRepo.StatusBreakdown(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return rows, nil
}

// ReportPeriods lists the years (newest first) and, per year, the quarters
// holding at least one loan or sale
type ReportPeriods struct {
	Years    []int         `json:"years"`
	Quarters map[int][]int `json:"quarters"`
}

// AvailablePeriods returns the periods a report can be built for.
// With no data at all the current year is offered with no quarters.
func (s *ReportService) AvailablePeriods(ctx context.Context) (*ReportPeriods, error) {
	loanYears, err := s.loanRepo.DistinctYears(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	saleYears, err := s.saleRepo.DistinctYears(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	years := mergeYears(loanYears, saleYears)
	periods := &ReportPeriods{Quarters: make(map[int][]int)}
	if len(years) == 0 {
		periods.Years = []int{s.clock.today().Year()}
		return periods, nil
	}
	periods.Years = years

	for _, year := range years {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

		var seen [5]bool
		loans, err := s.loanRepo.ListBetween(ctx, from, to)
		if err != nil {
			return nil, storeError(err)
		}
		for _, loan := range loans {
			seen[quarterOf(time.Time(loan.OriginationDate))] = true
		}
		sales, err := s.saleRepo.ListBetween(ctx, from, to)
		if err != nil {
			return nil, storeError(err)
		}
		for _, sale := range sales {
			seen[quarterOf(time.Time(sale.SaleDate))] = true
		}

		var quarters []int
		for q := 1; q <= 4; q++ {
			if seen[q] {
				quarters = append(quarters, q)
			}
		}
		if len(quarters) > 0 {
			periods.Quarters[year] = quarters
		}
	}
	return periods, nil
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// mergeYears unions two year lists in descending order
func mergeYears(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	var out []int
	for _, list := range [][]int{a, b} {
		for _, y := range list {
			if _, ok := seen[y]; !ok {
				seen[y] = struct{}{}
				out = append(out, y)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
