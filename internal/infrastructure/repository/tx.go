package repository

import (
	"context"

	domainRepo "github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txContextKey struct{}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager backed by GORM. The open
// transaction travels on the context, so every repository call made
// inside RunInTx joins the same unit of work.
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFor returns the transaction bound to ctx when one is present,
// otherwise the base connection.
func dbFor(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
