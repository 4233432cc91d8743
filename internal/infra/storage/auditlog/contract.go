package auditlog

import (
	"github.com/m04kA/booking-core/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
