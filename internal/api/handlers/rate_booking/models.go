package rate_booking

type RateRequest struct {
	Rating int `json:"rating"`
}

type BookingResponse struct {
	ID     int64 `json:"id"`
	Rating int   `json:"rating"`
}
