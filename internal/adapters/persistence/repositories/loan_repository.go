package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/core/domain"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

var loanSortColumns = map[string]string{
	"code":             "code",
	"origination_date": "origination_date",
	"principal":        "principal",
	"status":           "status",
	"term_months":      "term_months",
	"item_name":        "item_name",
}

func (r *loanRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Client").Preload("Employee").Preload("InterestRate")
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return conn(ctx, r.db).Omit("Client", "Employee", "InterestRate").Create(loan).Error
}

// GetByCode gets a loan by code with its relations
func (r *loanRepository) GetByCode(ctx context.Context, code uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.withRelations(conn(ctx, r.db)).Where("code = ?", code).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// UpdateStatus sets status on the given loans and returns the affected count
func (r *loanRepository) UpdateStatus(ctx context.Context, codes []uint, status string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	result := conn(ctx, r.db).Model(&models.Loan{}).
		Where("code IN ?", codes).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// ListByStatus lists every loan in status
func (r *loanRepository) ListByStatus(ctx context.Context, status string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).Where("status = ?", status).Order("code ASC").Find(&loans).Error
	return loans, err
}

// List lists loans with status filter and search
func (r *loanRepository) List(ctx context.Context, filter LoanFilter) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	q := conn(ctx, r.db).Model(&models.Loan{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		clients := r.db.Model(&models.Client{}).Select("id").
			Where("LOWER(full_name) LIKE ? OR phone LIKE ?", pattern, pattern)
		cond := r.db.Where("LOWER(item_name) LIKE ?", pattern).
			Or("LOWER(item_category) LIKE ?", pattern).
			Or("LOWER(physical_condition) LIKE ?", pattern).
			Or("LOWER(status) LIKE ?", pattern).
			Or("CAST(code AS CHAR) LIKE ?", pattern).
			Or("CAST(principal AS CHAR) LIKE ?", pattern).
			Or("client_id IN (?)", clients)
		if n, ok := searchInt(filter.Search); ok {
			cond = cond.Or("code = ?", n).Or("client_id = ?", n)
		}
		q = q.Where(cond)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = applyOrder(q, loanSortColumns, filter.Sort, filter.Order, "code")
	if err := r.withRelations(applyPage(q, filter.ListParams)).Find(&loans).Error; err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ListConvertible lists overdue loans that have no unclaimed item yet
func (r *loanRepository) ListConvertible(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	db := conn(ctx, r.db)
	err := r.withRelations(db).
		Where("status = ?", domain.LoanStatusOverdue.String()).
		Where("code NOT IN (?)", r.db.Model(&models.UnclaimedItem{}).Select("loan_code")).
		Order("code ASC").
		Find(&loans).Error
	return loans, err
}

// ListBetween lists loans originated within [from, to]
func (r *loanRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).
		Where("origination_date >= ? AND origination_date <= ?", models.Date(from), models.Date(to)).
		Order("code ASC").
		Find(&loans).Error
	return loans, err
}

// SearchByCodePrefix lists loans whose code starts with prefix
func (r *loanRepository) SearchByCodePrefix(ctx context.Context, prefix string, limit int) ([]*models.Loan, error) {
	var loans []*models.Loan
	q := conn(ctx, r.db).Preload("Client").
		Where("CAST(code AS CHAR) LIKE ?", strings.TrimSpace(prefix)+"%").
		Order("code ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&loans).Error
	return loans, err
}

// StatusBreakdown counts loans per status
func (r *loanRepository) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := conn(ctx, r.db).Model(&models.Loan{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	return rows, err
}

// DistinctStatuses returns the statuses present in the ledger
func (r *loanRepository) DistinctStatuses(ctx context.Context) ([]string, error) {
	var statuses []string
	err := conn(ctx, r.db).Model(&models.Loan{}).
		Distinct("status").
		Order("status ASC").
		Pluck("status", &statuses).Error
	return statuses, err
}

// DistinctYears returns origination years, newest first
func (r *loanRepository) DistinctYears(ctx context.Context) ([]int, error) {
	var dates []datatypes.Date
	if err := conn(ctx, r.db).Model(&models.Loan{}).Pluck("origination_date", &dates).Error; err != nil {
		return nil, err
	}
	return yearsOf(toTimes(dates)), nil
}

// CountByStatus counts loans in status
func (r *loanRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Loan{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountNotStatus counts loans not in status
func (r *loanRepository) CountNotStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Loan{}).Where("status <> ?", status).Count(&count).Error
	return count, err
}

// NextCode returns the next sequential loan code
func (r *loanRepository) NextCode(ctx context.Context) (uint, error) {
	return nextKey(ctx, r.db, &models.Loan{}, "code")
}

func toTimes(dates []datatypes.Date) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = time.Time(d)
	}
	return out
}
