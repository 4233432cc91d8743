package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/api/middleware"
	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/service/policy"
	"github.com/m04kA/booking-core/internal/usecase/booking"
)

const (
	msgInvalidBookingID  = "invalid booking id"
	msgLockWindow        = "cancellation window has closed"
	msgIllegalTransition = "booking cannot be cancelled from its current status"
	msgBookingNotFound   = "booking not found"
)

type Handler struct {
	sm     StateMachine
	logger Logger
}

func NewHandler(sm StateMachine, logger Logger) *Handler {
	return &Handler{sm: sm, logger: logger}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelRequest
	_ = handlers.DecodeJSON(r, &req)

	by := policy.RoleCustomer
	reason := booking.CancelByClient
	if middleware.GetActorRole(r.Context()) == middleware.RoleAdmin {
		by = policy.RoleAdmin
		reason = booking.CancelByAdmin
	}

	b, err := h.sm.Cancel(r.Context(), booking.CancelRequest{
		BookingID: bookingID,
		By:        by,
		Reason:    reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, domain.ErrLockWindow):
			handlers.RespondUnprocessable(w, msgLockWindow)
		case errors.Is(err, domain.ErrIllegalTransition):
			handlers.RespondConflict(w, msgIllegalTransition)
		default:
			h.logger.Error("POST /bookings/%d/cancel - failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/cancel - by=%s", bookingID, by)
	handlers.RespondJSON(w, http.StatusOK, BookingResponse{ID: b.ID, Status: string(b.Status)})
}
