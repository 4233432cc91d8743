package notifier

import "errors"

var (
	ErrInternal        = errors.New("notifier client: internal error")
	ErrInvalidResponse = errors.New("notifier client: invalid response")
)
