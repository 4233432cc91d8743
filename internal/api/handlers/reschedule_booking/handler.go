package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/booking"
)

const (
	msgInvalidBookingID  = "invalid booking id"
	msgInvalidBody       = "invalid request body"
	msgSlotUnavailable   = "slot is no longer available"
	msgLockWindow        = "change window has closed"
	msgIllegalTransition = "booking cannot be rescheduled from its current status"
	msgBookingNotFound   = "booking not found"
)

type Handler struct {
	sm     StateMachine
	logger Logger
}

func NewHandler(sm StateMachine, logger Logger) *Handler {
	return &Handler{sm: sm, logger: logger}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}
	newStart, err := time.Parse(time.RFC3339, req.NewStartUTC)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	b, err := h.sm.Reschedule(r.Context(), booking.RescheduleRequest{BookingID: bookingID, NewStartUTC: newStart})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, domain.ErrSlotUnavailable):
			handlers.RespondConflict(w, msgSlotUnavailable)
		case errors.Is(err, domain.ErrLockWindow):
			handlers.RespondConflict(w, msgLockWindow)
		case errors.Is(err, domain.ErrTooManyReschedules):
			handlers.RespondUnprocessable(w, msgIllegalTransition)
		case errors.Is(err, domain.ErrIllegalTransition):
			handlers.RespondConflict(w, msgIllegalTransition)
		case errors.Is(err, domain.ErrLeadTimeBlocked), errors.Is(err, domain.ErrBeyondHorizon):
			handlers.RespondUnprocessable(w, msgIllegalTransition)
		default:
			h.logger.Error("PATCH /bookings/%d/reschedule - failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%d/reschedule - new start=%s", bookingID, b.StartUTC.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, BookingResponse{
		ID:       b.ID,
		Status:   string(b.Status),
		StartUTC: b.StartUTC.Format(time.RFC3339),
		EndUTC:   b.EndUTC.Format(time.RFC3339),
	})
}
