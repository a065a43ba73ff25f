package repositories

import (
	"context"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
)

// unclaimedRepository implements UnclaimedRepository interface
type unclaimedRepository struct {
	db *gorm.DB
}

// NewUnclaimedRepository creates a new unclaimed item repository
func NewUnclaimedRepository(db *gorm.DB) UnclaimedRepository {
	return &unclaimedRepository{db: db}
}

var unclaimedSortColumns = map[string]string{
	"article":         "article",
	"loan_code":       "loan_code",
	"estimated_value": "estimated_value",
}

// Create creates a new unclaimed item
func (r *unclaimedRepository) Create(ctx context.Context, item *models.UnclaimedItem) error {
	return conn(ctx, r.db).Omit("Loan").Create(item).Error
}

// GetByArticle gets an unclaimed item by article
func (r *unclaimedRepository) GetByArticle(ctx context.Context, article uint) (*models.UnclaimedItem, error) {
	var item models.UnclaimedItem
	err := conn(ctx, r.db).Preload("Loan").Preload("Loan.Client").
		Where("article = ?", article).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByLoan checks if loanCode was already converted
func (r *unclaimedRepository) ExistsByLoan(ctx context.Context, loanCode uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.UnclaimedItem{}).
		Where("loan_code = ?", loanCode).
		Count(&count).Error
	return count > 0, err
}

// List lists unclaimed items with their sold flag
func (r *unclaimedRepository) List(ctx context.Context, filter UnclaimedFilter) ([]UnclaimedRow, int64, error) {
	var items []*models.UnclaimedItem
	var total int64

	soldArticles := r.db.Model(&models.Sale{}).Select("article")

	q := conn(ctx, r.db).Model(&models.UnclaimedItem{})
	if filter.MinPrice != nil {
		q = q.Where("estimated_value >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("estimated_value <= ?", *filter.MaxPrice)
	}
	if filter.UnsoldOnly {
		q = q.Where("article NOT IN (?)", soldArticles)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		cond := r.db.Where("loan_code IN (?)", r.db.Model(&models.Loan{}).Select("code").Where("LOWER(item_name) LIKE ?", pattern))
		if n, ok := searchInt(filter.Search); ok {
			cond = cond.Or("article = ?", n)
		}
		q = q.Where(cond)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = applyOrder(q, unclaimedSortColumns, filter.Sort, filter.Order, "article")
	err := applyPage(q, filter.ListParams).
		Preload("Loan").Preload("Loan.Client").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	sold, err := r.soldSet(ctx, items)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]UnclaimedRow, len(items))
	for i, item := range items {
		_, isSold := sold[item.Article]
		rows[i] = UnclaimedRow{Item: item, Sold: isSold}
	}
	return rows, total, nil
}

func (r *unclaimedRepository) soldSet(ctx context.Context, items []*models.UnclaimedItem) (map[uint]struct{}, error) {
	set := make(map[uint]struct{})
	if len(items) == 0 {
		return set, nil
	}
	articles := make([]uint, len(items))
	for i, item := range items {
		articles[i] = item.Article
	}
	var sold []uint
	err := conn(ctx, r.db).Model(&models.Sale{}).
		Where("article IN ?", articles).
		Pluck("article", &sold).Error
	if err != nil {
		return nil, err
	}
	for _, a := range sold {
		set[a] = struct{}{}
	}
	return set, nil
}

// Count counts all unclaimed items
func (r *unclaimedRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.UnclaimedItem{}).Count(&count).Error
	return count, err
}
