// Package transaction carries a gorm transaction through context.Context so
// that every repository call in one unit of work shares it.
package transaction

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"

	"pawnledger/internal/pkg/dberr"
)

// txKey is the context key for storing the transaction
type txKey struct{}

// maxAllocationRetries bounds retries when two writers allocated the same max+1 key
const maxAllocationRetries = 3

// Manager manages database transactions
type Manager struct {
	db *gorm.DB
}

// NewManager creates a new transaction manager
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Run executes fn inside a transaction. An error from fn rolls everything back.
// When the context already carries a transaction fn joins it.
//
// A duplicate-key failure means a concurrent writer took the same sequential
// key; the whole unit of work is then retried from scratch.
func (m *Manager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond

	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxAllocationRetries), ctx)

	return backoff.Retry(func() error {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if err != nil && !dberr.IsDuplicate(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

// DB returns the transaction from ctx if present, otherwise the base handle
func (m *Manager) DB(ctx context.Context) *gorm.DB {
	return FromContext(ctx, m.db)
}

// FromContext returns the transaction stored in ctx or defaultDB bound to ctx
func FromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
