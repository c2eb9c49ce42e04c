package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records how the transaction ended. Unused pgx.Tx methods panic.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = t.commitErr == nil
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx   *fakeTx
	opts pgx.TxOptions
	err  error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction_Commits(t *testing.T) {
	t.Parallel()
	db := &fakeBeginner{tx: &fakeTx{}}

	err := WithTransaction(context.Background(), db, func(pgx.Tx) error { return nil })

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	t.Parallel()
	db := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := WithTransaction(context.Background(), db, func(pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestWithTransaction_RollsBackOnCommitFailure(t *testing.T) {
	t.Parallel()
	db := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}

	err := WithTransaction(context.Background(), db, func(pgx.Tx) error { return nil })

	assert.ErrorContains(t, err, "failed to commit transaction")
	assert.True(t, db.tx.rolledBack)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	t.Parallel()
	db := &fakeBeginner{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), db, func(pgx.Tx) error { panic("kaboom") })
	})
	assert.True(t, db.tx.rolledBack)
}

func TestWithTransaction_BeginFailure(t *testing.T) {
	t.Parallel()
	db := &fakeBeginner{err: errors.New("pool closed")}

	err := WithTransaction(context.Background(), db, func(pgx.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorContains(t, err, "failed to begin transaction")
}

func TestWithTransactionOptions_PassesOptions(t *testing.T) {
	t.Parallel()
	db := &fakeBeginner{tx: &fakeTx{}}
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}

	require.NoError(t, WithTransactionOptions(context.Background(), db, opts, func(pgx.Tx) error { return nil }))
	assert.Equal(t, pgx.Serializable, db.opts.IsoLevel)
}

func TestWithTransactionResult(t *testing.T) {
	t.Parallel()

	got, err := WithTransactionResult(context.Background(), &fakeBeginner{tx: &fakeTx{}}, func(pgx.Tx) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = WithTransactionResult(context.Background(), &fakeBeginner{tx: &fakeTx{}}, func(pgx.Tx) (int, error) {
		return 7, errors.New("nope")
	})
	assert.Error(t, err)
	assert.Zero(t, got)
}
