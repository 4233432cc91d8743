package cancel_booking

type CancelRequest struct {
	Reason string `json:"reason"`
}

type BookingResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
