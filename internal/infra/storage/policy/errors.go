package policy

import "errors"

var (
	ErrBuildQuery = errors.New("policy.repository: failed to build query")
	ErrExecQuery  = errors.New("policy.repository: failed to execute query")
	ErrScanRow    = errors.New("policy.repository: failed to scan row")
)
