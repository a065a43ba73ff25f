package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
)

// interestRateRepository implements InterestRateRepository interface
type interestRateRepository struct {
	db *gorm.DB
}

// NewInterestRateRepository creates a new interest rate repository
func NewInterestRateRepository(db *gorm.DB) InterestRateRepository {
	return &interestRateRepository{db: db}
}

// Create creates a new rate row
func (r *interestRateRepository) Create(ctx context.Context, rate *models.InterestRate) error {
	return conn(ctx, r.db).Create(rate).Error
}

// GetByIndex gets a rate by index
func (r *interestRateRepository) GetByIndex(ctx context.Context, index uint) (*models.InterestRate, error) {
	var rate models.InterestRate
	err := conn(ctx, r.db).Where("rate_index = ?", index).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindByConditionTerm gets the rate for an exact (condition, term) pair
func (r *interestRateRepository) FindByConditionTerm(ctx context.Context, condition, term decimal.Decimal) (*models.InterestRate, error) {
	var rate models.InterestRate
	err := conn(ctx, r.db).
		Where("condition_score = ? AND term_months = ?", condition, term).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// List lists all rates ordered by index
func (r *interestRateRepository) List(ctx context.Context) ([]*models.InterestRate, error) {
	var rates []*models.InterestRate
	err := conn(ctx, r.db).Order("rate_index ASC").Find(&rates).Error
	return rates, err
}

// NextIndex returns the next sequential rate index
func (r *interestRateRepository) NextIndex(ctx context.Context) (uint, error) {
	return nextKey(ctx, r.db, &models.InterestRate{}, "rate_index")
}

// Count counts all rates
func (r *interestRateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.InterestRate{}).Count(&count).Error
	return count, err
}
