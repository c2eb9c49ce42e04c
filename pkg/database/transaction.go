package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxFunc runs inside a transaction
type TxFunc func(pgx.Tx) error

// WithTransaction runs fn in a read-committed transaction. It commits when
// fn returns nil and rolls back on error or panic.
func WithTransaction(ctx context.Context, db Beginner, fn TxFunc) error {
	return WithTransactionOptions(ctx, db, pgx.TxOptions{}, fn)
}

// WithTransactionOptions is WithTransaction with explicit isolation/access mode
func WithTransactionOptions(ctx context.Context, db Beginner, opts pgx.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithTransactionResult is WithTransaction for functions that return a value.
// The zero value is returned on any error.
func WithTransactionResult[T any](ctx context.Context, db Beginner, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T

	err := WithTransaction(ctx, db, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	// the caller's ctx may already be cancelled; rollback still has to run
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Warn().Err(err).Msg("failed to roll back transaction")
	}
}
