package list_bookings

import "time"

type BookingResponse struct {
	ID         int64      `json:"id"`
	StaffID    int64      `json:"staff_id"`
	ServiceIDs []int64    `json:"service_ids"`
	Status     string     `json:"status"`
	StartUTC   time.Time  `json:"start_utc"`
	EndUTC     time.Time  `json:"end_utc"`
	FinalPrice int64      `json:"final_price_minor"`
	Currency   string     `json:"currency"`
	Rating     *int       `json:"rating,omitempty"`
	InvoiceURL string     `json:"invoice_url,omitempty"`
}

type ListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}
