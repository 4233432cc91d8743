// Package txmanager implements TransactionManager against a metrics-wrapped
// *dbmetrics.DB. DoSerializable opens a SERIALIZABLE transaction and retries
// once on a Postgres serialization failure (SQLSTATE 40001), the standard
// way to use Postgres's SSI instead of hand-rolled locking for the rest of
// the statements in a transaction alongside the advisory lock taken for
// booking writes.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/m04kA/booking-core/pkg/dbmetrics"
)

const serializationFailureCode = "40001"

type beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager runs closures inside database transactions at varying
// isolation levels, threading the active transaction through ctx so
// repositories pick it up via dbmetrics.GetExecutor.
type TransactionManager struct {
	db beginner
}

func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do runs fn inside a default-isolation read/write transaction.
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly runs fn inside a read-only transaction.
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable runs fn inside a SERIALIZABLE transaction, retrying once
// if Postgres reports a serialization failure.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	err := m.run(ctx, opts, fn)
	if err != nil && isSerializationFailure(err) {
		err = m.run(ctx, opts, fn)
	}
	return err
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == serializationFailureCode
	}
	// lib/pq errors sometimes surface only as formatted text once wrapped.
	return strings.Contains(err.Error(), serializationFailureCode)
}
