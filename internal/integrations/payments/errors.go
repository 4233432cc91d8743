package payments

import "errors"

var (
	ErrInvalidResponse = errors.New("payments client: invalid response")
	ErrInternal        = errors.New("payments client: internal error")
	ErrInvoiceNotFound = errors.New("payments client: invoice not found")
)
