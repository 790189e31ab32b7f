package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// ErrNoTransaction is returned by operations that must join a caller's transaction
var ErrNoTransaction = errors.New("operation requires an active transaction")

// TransactionManager manages database transactions via context injection.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewTransactionManager returns a manager whose transactions give up waiting
// on row locks after lockTimeout. Zero leaves the server default.
func NewTransactionManager(db *gorm.DB, lockTimeout time.Duration) TransactionManager {
	return &transactionManager{db: db, lockTimeout: lockTimeout}
}

// RunInTx joins the transaction already in ctx, or starts a new one.
func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.lockTimeout > 0 {
			// SET does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

// InTx reports whether ctx carries a transaction started by RunInTx
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// WithTx marks ctx as running inside tx. Test doubles use it to satisfy InTx.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}
