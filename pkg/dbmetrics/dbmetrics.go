// Package dbmetrics wraps database/sql so every repository call is timed
// and counted, and so a transaction started by a TransactionManager can be
// threaded through context.Context to repositories without every method
// signature growing a *sql.Tx parameter.
package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/booking-core/pkg/metrics"
)

// DBExecutor is the subset of *sql.DB / *sql.Tx that repositories need.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor is a DBExecutor that can be committed or rolled back.
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type txCtxKey struct{}

// WithTx returns a context carrying tx, so GetExecutor picks it up.
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// IsInTransaction reports whether ctx carries an active transaction.
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(TxExecutor)
	return ok
}

// GetExecutor returns the transaction in ctx, if any, else fallback.
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txCtxKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// DB wraps *sql.DB, recording query counts/latencies and, while
// WrapWithDefault's background goroutine runs, connection-pool gauges.
type DB struct {
	*sql.DB
	metrics *metrics.Metrics
}

// WrapWithDefault wraps db and starts a goroutine that samples connection
// pool stats every 10s until stopCh is closed.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, serviceName string, stopCh <-chan struct{}) *DB {
	wrapped := &DB{DB: db, metrics: m}

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.DBOpenConns.Set(float64(stats.OpenConnections))
				m.DBInUseConns.Set(float64(stats.InUse))
				m.DBIdleConns.Set(float64(stats.Idle))
			case <-stopCh:
				return
			}
		}
	}()

	return wrapped
}

func (d *DB) observe(operation string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	d.metrics.DBQueriesTotal.WithLabelValues(operation, outcome).Inc()
	d.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.DB.ExecContext(ctx, query, args...)
	d.observe("exec", err, start)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.DB.QueryContext(ctx, query, args...)
	d.observe("query", err, start)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.DB.QueryRowContext(ctx, query, args...)
	d.observe("query_row", nil, start)
	return row
}

// BeginTx opens a metrics-wrapped transaction.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &meteredTx{Tx: tx, metrics: d.metrics}, nil
}

type meteredTx struct {
	*sql.Tx
	metrics *metrics.Metrics
}

func (t *meteredTx) observe(operation string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	t.metrics.DBQueriesTotal.WithLabelValues(operation, outcome).Inc()
	t.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (t *meteredTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.Tx.ExecContext(ctx, query, args...)
	t.observe("tx_exec", err, start)
	return res, err
}

func (t *meteredTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.Tx.QueryContext(ctx, query, args...)
	t.observe("tx_query", err, start)
	return rows, err
}

func (t *meteredTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.Tx.QueryRowContext(ctx, query, args...)
	t.observe("tx_query_row", nil, start)
	return row
}
