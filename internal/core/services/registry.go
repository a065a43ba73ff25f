package services

import (
	"fmt"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/access"
	"pawnledger/internal/pkg/transaction"
)

// Registry holds every service built over one database handle. The HTTP
// routes and the CLI commands share it.
type Registry struct {
	Policy *access.Policy
	Gate   *access.Gate
	Clock  Clock

	Rates     *InterestRateService
	Loans     *LoanService
	Unclaimed *UnclaimedService
	Sales     *SaleService
	Clients   *ClientService
	Employees *EmployeeService
	Auth      *AuthService
	Dashboard *DashboardService
	Reports   *ReportService

	EmployeeRepo repositories.EmployeeRepository
}

// NewRegistry initializes repositories and services
func NewRegistry(db *gorm.DB, authCfg AuthConfig, clock Clock) (*Registry, error) {
	if clock == nil {
		clock = SystemClock(nil)
	}

	policy, err := access.NewPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to build access policy: %w", err)
	}

	txManager := transaction.NewManager(db)

	// Initialize repositories
	clientRepo := repositories.NewClientRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	rateRepo := repositories.NewInterestRateRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	unclaimedRepo := repositories.NewUnclaimedRepository(db)
	saleRepo := repositories.NewSaleRepository(db)

	// Initialize services
	rates := NewInterestRateService(txManager, rateRepo)
	loans := NewLoanService(txManager, loanRepo, clientRepo, employeeRepo, rates, clock)
	employees := NewEmployeeService(txManager, employeeRepo, clock)

	return &Registry{
		Policy: policy,
		Gate:   access.NewGate(policy, employees),
		Clock:  clock,

		Rates:     rates,
		Loans:     loans,
		Unclaimed: NewUnclaimedService(txManager, loanRepo, unclaimedRepo, saleRepo, loans, clock),
		Sales:     NewSaleService(txManager, saleRepo, unclaimedRepo, employeeRepo, clock),
		Clients:   NewClientService(txManager, clientRepo),
		Employees: employees,
		Auth:      NewAuthService(employeeRepo, authCfg),
		Dashboard: NewDashboardService(txManager, clientRepo, employeeRepo, loanRepo, unclaimedRepo, saleRepo, loans),
		Reports:   NewReportService(loanRepo, saleRepo, clock),

		EmployeeRepo: employeeRepo,
	}, nil
}
