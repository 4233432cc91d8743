package auditlog

import "errors"

var (
	ErrBuildQuery = errors.New("auditlog.repository: failed to build query")
	ErrExecQuery  = errors.New("auditlog.repository: failed to execute query")
)
