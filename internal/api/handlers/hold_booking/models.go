package hold_booking

import (
	"time"

	"github.com/m04kA/booking-core/internal/domain"
)

type HoldRequest struct {
	StaffID       int64   `json:"staff_id"`
	ServiceIDs    []int64 `json:"service_ids"`
	StartUTC      string  `json:"start_utc"`
	PaymentMethod string  `json:"payment_method"`
}

type HoldResponse struct {
	BookingID int64                  `json:"booking_id"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
	Snapshot  domain.PricingSnapshot `json:"snapshot"`
}
