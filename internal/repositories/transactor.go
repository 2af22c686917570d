package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"stock_backend/pkg/utils"
)

// Transactor runs a unit of work inside a single database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlTransactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor backed by db.
func NewTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
// fn's error is returned unchanged so callers can still match sentinels.
func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrDatabaseError, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			utils.LogError(rbErr, "Failed to rollback transaction")
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", ErrDatabaseError, err)
	}
	return nil
}
