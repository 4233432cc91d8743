package finalize_booking

type FinalizeRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type FinalizeResponse struct {
	Status     string `json:"status"`
	InvoiceURL string `json:"invoice_url,omitempty"`
}
