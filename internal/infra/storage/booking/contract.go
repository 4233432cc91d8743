package booking

import (
	"context"
	"database/sql"

	"github.com/m04kA/booking-core/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner begins a transaction, implemented by *sql.DB and *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}
