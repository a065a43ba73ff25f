package repositories

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
)

// saleRepository implements SaleRepository interface
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

var saleSortColumns = map[string]string{
	"code":      "code",
	"sale_date": "sale_date",
	"article":   "article",
	"seller_id": "seller_id",
}

func (r *saleRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Seller").Preload("Item").Preload("Item.Loan")
}

// Create records a new sale
func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return conn(ctx, r.db).Omit("Item", "Seller").Create(sale).Error
}

// GetByCode gets a sale by code
func (r *saleRepository) GetByCode(ctx context.Context, code uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.withRelations(conn(ctx, r.db)).Where("code = ?", code).First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ExistsByArticle checks if article has been sold
func (r *saleRepository) ExistsByArticle(ctx context.Context, article uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Sale{}).
		Where("article = ?", article).
		Count(&count).Error
	return count > 0, err
}

// List lists sales within an optional date range
func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]*models.Sale, int64, error) {
	var sales []*models.Sale
	var total int64

	q := conn(ctx, r.db).Model(&models.Sale{})
	if filter.DateFrom != nil {
		q = q.Where("sale_date >= ?", models.Date(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		q = q.Where("sale_date <= ?", models.Date(*filter.DateTo))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		cond := r.db.Where("seller_id IN (?)", r.db.Model(&models.Employee{}).Select("id").Where("LOWER(full_name) LIKE ?", pattern))
		if n, ok := searchInt(filter.Search); ok {
			cond = cond.Or("code = ?", n).Or("article = ?", n)
		}
		q = q.Where(cond)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = applyOrder(q, saleSortColumns, filter.Sort, filter.Order, "code")
	if err := r.withRelations(applyPage(q, filter.ListParams)).Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// ListBetween lists sales dated within [from, to] with their items
func (r *saleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	var sales []*models.Sale
	err := conn(ctx, r.db).Preload("Item").
		Where("sale_date >= ? AND sale_date <= ?", models.Date(from), models.Date(to)).
		Order("code ASC").
		Find(&sales).Error
	return sales, err
}

// DistinctYears returns sale years, newest first
func (r *saleRepository) DistinctYears(ctx context.Context) ([]int, error) {
	var dates []datatypes.Date
	if err := conn(ctx, r.db).Model(&models.Sale{}).Pluck("sale_date", &dates).Error; err != nil {
		return nil, err
	}
	return yearsOf(toTimes(dates)), nil
}

// NextCode returns the next sequential sale code
func (r *saleRepository) NextCode(ctx context.Context) (uint, error) {
	return nextKey(ctx, r.db, &models.Sale{}, "code")
}

// Count counts all sales
func (r *saleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Sale{}).Count(&count).Error
	return count, err
}
