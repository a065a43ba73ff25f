package repositories

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pawnledger/internal/pkg/transaction"
)

// conn returns the transaction in ctx or the base handle
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	return transaction.FromContext(ctx, db)
}

// nextKey returns max(column)+1 for model. Must run inside the caller's
// transaction; the primary key constraint catches concurrent collisions.
func nextKey(ctx context.Context, db *gorm.DB, model interface{}, column string) (uint, error) {
	var max uint
	err := conn(ctx, db).Model(model).
		Select("COALESCE(MAX(" + column + "), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// likePattern builds a case-insensitive substring pattern
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// searchInt returns the search term as an integer when it is numeric
func searchInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

// applyOrder orders by the whitelisted column for key, or by fallback
func applyOrder(q *gorm.DB, columns map[string]string, key, order, fallback string) *gorm.DB {
	col, ok := columns[key]
	if !ok {
		col = fallback
	}
	return q.Order(clause.OrderByColumn{
		Column: clause.Column{Name: col},
		Desc:   strings.EqualFold(order, "desc"),
	})
}

// applyPage applies offset/limit when a limit is set
func applyPage(q *gorm.DB, p ListParams) *gorm.DB {
	if p.Limit > 0 {
		q = q.Offset(p.Offset).Limit(p.Limit)
	}
	return q
}

// yearsOf returns distinct years in descending order
func yearsOf(dates []time.Time) []int {
	seen := make(map[int]struct{})
	for _, d := range dates {
		if !d.IsZero() {
			seen[d.Year()] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
