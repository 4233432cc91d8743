package hold_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/api/middleware"
	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/booking"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

const (
	msgInvalidBody     = "invalid request body"
	msgMissingUserID   = "missing user id"
	msgSlotUnavailable = "slot is no longer available"
	msgLeadTimeBlocked = "start time violates the minimum lead time"
	msgBeyondHorizon   = "start time is beyond the booking horizon"
	msgMixedCurrency   = "services in the bundle use different currencies"
)

type Handler struct {
	sm     StateMachine
	logger Logger
}

func NewHandler(sm StateMachine, logger Logger) *Handler {
	return &Handler{sm: sm, logger: logger}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req HoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartUTC)
	if err != nil || req.StaffID <= 0 || len(req.ServiceIDs) == 0 {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	b, err := h.sm.Hold(r.Context(), booking.HoldRequest{
		CustomerID:    customerID,
		StaffID:       req.StaffID,
		ServiceIDs:    req.ServiceIDs,
		StartUTC:      start,
		PaymentMethod: pricing.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.respondErr(w, err, customerID)
		return
	}

	h.logger.Info("POST /holds - booking id=%d held for customer=%d", b.ID, customerID)
	handlers.RespondJSON(w, http.StatusCreated, HoldResponse{
		BookingID: b.ID,
		ExpiresAt: b.HoldExpiresAtUTC,
		Snapshot:  b.Pricing,
	})
}

func (h *Handler) respondErr(w http.ResponseWriter, err error, customerID int64) {
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		handlers.RespondConflict(w, msgSlotUnavailable)
	case errors.Is(err, domain.ErrLeadTimeBlocked):
		handlers.RespondUnprocessable(w, msgLeadTimeBlocked)
	case errors.Is(err, domain.ErrBeyondHorizon):
		handlers.RespondUnprocessable(w, msgBeyondHorizon)
	case errors.Is(err, domain.ErrMixedCurrency):
		handlers.RespondUnprocessable(w, msgMixedCurrency)
	case errors.Is(err, booking.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidBody)
	default:
		h.logger.Error("POST /holds - failed for customer=%d: %v", customerID, err)
		handlers.RespondInternalError(w)
	}
}
