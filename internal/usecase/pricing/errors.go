package pricing

import "errors"

var (
	ErrEmptyBundle   = errors.New("pricing: bundle is empty")
	ErrMixedCurrency = errors.New("pricing: services in bundle use different currencies")
	ErrStaffNotFound = errors.New("pricing: staff not found")
	ErrInternal      = errors.New("pricing: internal error")
)
