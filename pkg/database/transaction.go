package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"
)

type txContextKey string

const txKey = txContextKey("tx-context-key")

// FromContext returns the open transaction carried by the context, or the
// given fallback when no unit of work is active. Repositories call this at
// the top of every method so statements issued inside RunInTransaction all
// share the same transaction.
func FromContext(ctx context.Context, fallback Executor) Executor {
	if tx, ok := ctx.Value(txKey).(Executor); ok && tx != nil {
		return tx
	}
	return fallback
}

// InTransaction reports whether the context carries an open unit of work.
func InTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey).(Executor)
	return ok && tx != nil
}

// TxRunner binds a pool and logger so callers can open units of work without
// carrying both around
type TxRunner struct {
	db     DB
	logger ectologger.Logger
}

func NewTxRunner(db DB, logger ectologger.Logger) *TxRunner {
	return &TxRunner{db: db, logger: logger}
}

func (r *TxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return RunInTransaction(ctx, r.logger, r.db, fn)
}

// RunInTransaction executes fn inside a single database transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
// A nested call joins the caller's transaction instead of opening a new one,
// so a public contract composed of smaller operations still commits or
// aborts as one unit.
func RunInTransaction(ctx context.Context, logger ectologger.Logger, db DB, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey, Executor(tx))

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.WithContext(ctx).WithError(rbErr).Error("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.WithContext(ctx).WithError(err).Error("Failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
