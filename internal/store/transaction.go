package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/blokmap/blokmap-api/internal/platform/logger"
)

// TxFn is a unit of work run inside one database transaction, e.g. the
// lock-check-insert sequence of a translation create or a signup insert.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxOption configures RunInTransaction.
type TxOption func(*txConfig)

type txConfig struct {
	mapErr func(error) error
}

// WithErrorMapper converts driver errors raised while committing into store
// errors. Deferred constraints are checked at commit, so a unique violation
// can surface there instead of at the insert.
func WithErrorMapper(mapErr func(error) error) TxOption {
	return func(c *txConfig) {
		c.mapErr = mapErr
	}
}

// RunInTransaction runs fn inside a transaction on db. The transaction is
// committed when fn returns nil and rolled back when it returns an error or
// panics. Errors from fn are returned as is so that callers can match the
// store sentinels they produced. Begin and commit failures wrap
// ErrTransactionFailed.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn, opts ...TxOption) error {
	cfg := txConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, cfg.mapError(err))
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction after panic",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		} else {
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
		}
		// ALLOW-PANIC: re-raised after rollback
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		log.Debug("rolled back transaction", slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, cfg.mapError(err))
	}

	log.Debug("transaction committed")
	return nil
}

func (c txConfig) mapError(err error) error {
	if c.mapErr == nil {
		return err
	}
	return c.mapErr(err)
}

// Transactor runs a function inside a single database transaction.
// Services depend on it instead of *sql.DB so tests can substitute an in-memory fake.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// SQLTransactor is the database/sql implementation of Transactor.
type SQLTransactor struct {
	db   *sql.DB
	opts []TxOption
}

// NewSQLTransactor creates a Transactor backed by db. opts apply to every
// transaction it runs.
func NewSQLTransactor(db *sql.DB, opts ...TxOption) *SQLTransactor {
	return &SQLTransactor{db: db, opts: opts}
}

// RunInTransaction implements Transactor using the package-level RunInTransaction.
func (t *SQLTransactor) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn, t.opts...)
}
