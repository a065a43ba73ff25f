package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/pkg/transaction"
)

// InterestRateService resolves (condition, term) pairs to rate rows
type InterestRateService struct {
	txManager *transaction.Manager
	rateRepo  repositories.InterestRateRepository
}

// NewInterestRateService creates a new interest rate service
func NewInterestRateService(txManager *transaction.Manager, rateRepo repositories.InterestRateRepository) *InterestRateService {
	return &InterestRateService{
		txManager: txManager,
		rateRepo:  rateRepo,
	}
}

// ResolveOrCreate returns the rate stored for the exact (condition, term)
// pair, creating it with percentage = condition + term when absent.
// A stored percentage is returned as is, even if it differs from the sum.
func (s *InterestRateService) ResolveOrCreate(ctx context.Context, condition, term decimal.Decimal) (*models.InterestRate, error) {
	var rate *models.InterestRate
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		var err error
		rate, err = s.resolveOrCreate(ctx, condition, term)
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}
	return rate, nil
}

// resolveOrCreate must run inside a transaction
func (s *InterestRateService) resolveOrCreate(ctx context.Context, condition, term decimal.Decimal) (*models.InterestRate, error) {
	existing, err := s.rateRepo.FindByConditionTerm(ctx, condition, term)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	index, err := s.rateRepo.NextIndex(ctx)
	if err != nil {
		return nil, err
	}

	rate := &models.InterestRate{
		Index:          index,
		ConditionScore: condition,
		TermMonths:     term,
		Percentage:     condition.Add(term),
	}
	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// List returns the whole rate table
func (s *InterestRateService) List(ctx context.Context) ([]*models.InterestRate, error) {
	rates, err := s.rateRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return rates, nil
}
