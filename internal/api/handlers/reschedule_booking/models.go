package reschedule_booking

type RescheduleRequest struct {
	NewStartUTC string `json:"new_start_utc"`
}

type BookingResponse struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	StartUTC string `json:"start_utc"`
	EndUTC   string `json:"end_utc"`
}
