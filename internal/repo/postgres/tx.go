package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/spark/internal/domain/model"
)

type txKey struct{}

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error {
	return withTxOptions(ctx, pool, pgx.TxOptions{}, fn)
}

func withTxOptions(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(context.Context, pgx.Tx) error) error {
	if pool == nil {
		return errors.New("postgres pool is nil")
	}

	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// conn returns the transaction bound to ctx by TxManager, or the pool.
func conn(ctx context.Context, pool *pgxpool.Pool) (querier, error) {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok && tx != nil {
		return tx, nil
	}
	if pool == nil {
		return nil, errors.New("postgres pool is nil")
	}
	return pool, nil
}

type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithinPairTx runs fn in one transaction holding an advisory lock on the unordered pair {a, b}.
// Repos called with the ctx passed to fn join that transaction.
func (m *TxManager) WithinPairTx(ctx context.Context, a, b string, fn func(context.Context) error) error {
	return WithTx(ctx, m.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, model.PairKey(a, b)); err != nil {
			return fmt.Errorf("lock interest pair: %w", err)
		}
		return fn(context.WithValue(txCtx, txKey{}, tx))
	})
}

// WithinSnapshotTx runs fn in a read-only REPEATABLE READ transaction, so every read made
// with the ctx passed to fn sees the same committed state.
func (m *TxManager) WithinSnapshotTx(ctx context.Context, fn func(context.Context) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return withTxOptions(ctx, m.pool, opts, func(txCtx context.Context, tx pgx.Tx) error {
		return fn(context.WithValue(txCtx, txKey{}, tx))
	})
}
