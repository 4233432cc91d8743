package policy

import "errors"

var (
	ErrTooSoon            = errors.New("policy: start time violates minimum lead time")
	ErrTooFar             = errors.New("policy: start time is beyond the booking horizon")
	ErrLockWindow         = errors.New("policy: change window has closed")
	ErrTerminal           = errors.New("policy: booking is in a terminal state")
	ErrTooManyReschedules = errors.New("policy: reschedule limit reached")
	ErrIllegalTransition  = errors.New("policy: illegal status transition")
)
