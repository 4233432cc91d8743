package rate_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/booking"
)

const (
	msgInvalidBookingID  = "invalid booking id"
	msgInvalidBody       = "rating must be between 1 and 5"
	msgIllegalTransition = "only a completed booking can be rated"
	msgAlreadyRated      = "booking has already been rated"
	msgBookingNotFound   = "booking not found"
)

type Handler struct {
	sm     StateMachine
	logger Logger
}

func NewHandler(sm StateMachine, logger Logger) *Handler {
	return &Handler{sm: sm, logger: logger}
}

// Handle POST /api/v1/bookings/{bookingId}/rate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	b, err := h.sm.Rate(r.Context(), booking.RateRequest{BookingID: bookingID, Rating: req.Rating})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBody)
		case errors.Is(err, booking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, domain.ErrAlreadyRated):
			handlers.RespondConflict(w, msgAlreadyRated)
		case errors.Is(err, domain.ErrIllegalTransition):
			handlers.RespondConflict(w, msgIllegalTransition)
		default:
			h.logger.Error("POST /bookings/%d/rate - failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	rating := 0
	if b.Rating != nil {
		rating = *b.Rating
	}
	h.logger.Info("POST /bookings/%d/rate - rating=%d", bookingID, rating)
	handlers.RespondJSON(w, http.StatusOK, BookingResponse{ID: b.ID, Rating: rating})
}
