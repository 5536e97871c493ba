package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner abstracts "run fn inside one database transaction" so the ledger
// service can be exercised with in-memory repositories in unit tests.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct{ db *gorm.DB }

// NewTxRunner wraps a live *gorm.DB. Every mutating ledger operation goes
// through exactly one RunInTx call — either every row changes or none does.
func NewTxRunner(db *gorm.DB) TxRunner { return &gormTxRunner{db: db} }

func (r *gormTxRunner) RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
