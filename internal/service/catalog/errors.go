package catalog

import "errors"

var (
	// ErrServiceNotFound is returned when a requested service id does not exist.
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrStaffNotFound is returned when a requested staff id does not exist.
	ErrStaffNotFound = errors.New("catalog: staff not found")

	// ErrInternal wraps unexpected repository or cache failures.
	ErrInternal = errors.New("catalog: internal error")
)
