package services

import (
	"context"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/transaction"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	txManager     *transaction.Manager
	clientRepo    repositories.ClientRepository
	employeeRepo  repositories.EmployeeRepository
	loanRepo      repositories.LoanRepository
	unclaimedRepo repositories.UnclaimedRepository
	saleRepo      repositories.SaleRepository
	loans         *LoanService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	txManager *transaction.Manager,
	clientRepo repositories.ClientRepository,
	employeeRepo repositories.EmployeeRepository,
	loanRepo repositories.LoanRepository,
	unclaimedRepo repositories.UnclaimedRepository,
	saleRepo repositories.SaleRepository,
	loans *LoanService,
) *DashboardService {
	return &DashboardService{
		txManager:     txManager,
		clientRepo:    clientRepo,
		employeeRepo:  employeeRepo,
		loanRepo:      loanRepo,
		unclaimedRepo: unclaimedRepo,
		saleRepo:      saleRepo,
		loans:         loans,
	}
}

// DashboardData represents the home screen counters
type DashboardData struct {
	TotalClients    int64 `json:"total_clients"`
	OpenLoans       int64 `json:"open_loans"` // every loan not yet Paid
	OverdueLoans    int64 `json:"overdue_loans"`
	UnclaimedItems  int64 `json:"unclaimed_items"`
	TotalSales      int64 `json:"total_sales"`
	ActiveEmployees int64 `json:"active_employees"`
}

// GetDashboard sweeps overdue loans and collects the counters
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.loans.sweep(ctx); err != nil {
			return err
		}

		var err error
		if data.TotalClients, err = s.clientRepo.Count(ctx); err != nil {
			return err
		}
		if data.OpenLoans, err = s.loanRepo.CountNotStatus(ctx, domain.LoanStatusPaid.String()); err != nil {
			return err
		}
		if data.OverdueLoans, err = s.loanRepo.CountByStatus(ctx, domain.LoanStatusOverdue.String()); err != nil {
			return err
		}
		if data.UnclaimedItems, err = s.unclaimedRepo.Count(ctx); err != nil {
			return err
		}
		if data.TotalSales, err = s.saleRepo.Count(ctx); err != nil {
			return err
		}
		_, data.ActiveEmployees, err = s.employeeRepo.List(ctx, repositories.EmployeeFilter{
			ListParams: repositories.ListParams{Limit: 1},
			Status:     "active",
		})
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}
	return data, nil
}
