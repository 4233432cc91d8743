package booking

import (
	"time"

	"github.com/m04kA/booking-core/internal/service/policy"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

type HoldRequest struct {
	CustomerID    int64
	StaffID       int64
	ServiceIDs    []int64
	StartUTC      time.Time
	PaymentMethod pricing.PaymentMethod
}

type FinalizeRequest struct {
	BookingID     int64
	PaymentMethod pricing.PaymentMethod
}

type RescheduleRequest struct {
	BookingID   int64
	NewStartUTC time.Time
}

// CancelReason is the tag attached to a BookingCancelled event, per the
// cancel-reason taxonomy in the lifecycle design.
type CancelReason string

const (
	CancelByClient        CancelReason = "client"
	CancelByAdmin         CancelReason = "admin"
	CancelExpired         CancelReason = "expired"
	CancelPaymentFailed   CancelReason = "payment_failed"
)

type CancelRequest struct {
	BookingID int64
	By        policy.Role
	Reason    CancelReason
}

type RateRequest struct {
	BookingID int64
	Rating    int
}
