package policy

import (
	"context"
	"database/sql"

	"github.com/m04kA/booking-core/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}
