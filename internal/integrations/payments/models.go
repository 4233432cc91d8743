package payments

// CreateInvoiceResponse is the payment gateway's response to opening an
// invoice for a booking.
type CreateInvoiceResponse struct {
	InvoiceRef  string `json:"invoice_ref"`
	ExternalURL string `json:"external_url"`
}

// VerifyPaymentResponse is the gateway's response to a status poll.
type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

type createInvoiceRequest struct {
	BookingID   int64  `json:"booking_id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}
