package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
)

// Default rate grid. Each (condition, term) pair gets percentage = condition + term.
var (
	seedConditions = []string{"5.00", "7.50", "10.00", "12.50", "15.00"}
	seedTerms      = []string{"5.00", "6.25", "7.50", "8.75", "10.00"}
)

// Seeder handles database seeding
type Seeder struct {
	rates        *services.InterestRateService
	employees    *services.EmployeeService
	employeeRepo repositories.EmployeeRepository
	admin        SeedConfig
	log          *slog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(
	rates *services.InterestRateService,
	employees *services.EmployeeService,
	employeeRepo repositories.EmployeeRepository,
	admin SeedConfig,
) *Seeder {
	return &Seeder{
		rates:        rates,
		employees:    employees,
		employeeRepo: employeeRepo,
		admin:        admin,
		log:          logger.WithComponent("seeder"),
	}
}

// SeedResult reports what a seeding run created
type SeedResult struct {
	RatesCreated int  `json:"rates_created"`
	AdminCreated bool `json:"admin_created"`
}

// Run executes all seeders. It is safe to run repeatedly.
func (s *Seeder) Run(ctx context.Context) (*SeedResult, error) {
	s.log.Info("running database seeders")

	result := &SeedResult{}
	created, err := s.seedInterestRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("interest rate seeder: %w", err)
	}
	result.RatesCreated = created

	result.AdminCreated, err = s.seedAdministrator(ctx)
	if err != nil {
		return nil, fmt.Errorf("administrator seeder: %w", err)
	}

	s.log.Info("database seeding completed",
		"rates_created", result.RatesCreated,
		"admin_created", result.AdminCreated,
	)
	return result, nil
}

// seedInterestRates resolves every grid pair, creating the missing ones
func (s *Seeder) seedInterestRates(ctx context.Context) (int, error) {
	before, err := s.rates.List(ctx)
	if err != nil {
		return 0, err
	}

	for _, c := range seedConditions {
		for _, t := range seedTerms {
			if _, err := s.rates.ResolveOrCreate(ctx, decimal.RequireFromString(c), decimal.RequireFromString(t)); err != nil {
				return 0, err
			}
		}
	}

	after, err := s.rates.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(after) - len(before), nil
}

// seedAdministrator creates the initial Administrator when no employee exists yet
func (s *Seeder) seedAdministrator(ctx context.Context) (bool, error) {
	count, err := s.employeeRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin, err := s.employees.Create(ctx, &services.EmployeeInput{
		FullName: s.admin.AdminName,
		Role:     domain.RoleAdministrator.String(),
		HireDate: time.Now().Format(services.DateLayout),
		Phone:    s.admin.AdminPhone,
		Login:    s.admin.AdminLogin,
		Password: s.admin.AdminPassword,
	})
	if err != nil {
		return false, err
	}

	s.log.Warn("initial administrator created; change the password",
		"id", admin.ID,
		"login", s.admin.AdminLogin,
	)
	return true, nil
}
