package booking

import "errors"

// Package-local errors. Business-rule violations (slot conflicts, policy
// denials, illegal transitions) are surfaced as the domain.Err* sentinels
// directly so the API layer has one place to map them to responses.
var (
	ErrInvalidInput    = errors.New("booking: invalid input")
	ErrInternal        = errors.New("booking: internal error")
	ErrBookingNotFound = errors.New("booking: not found")
)
