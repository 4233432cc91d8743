package finalize_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/booking"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

const (
	msgInvalidBookingID  = "invalid booking id"
	msgInvalidBody       = "invalid request body"
	msgIllegalTransition = "booking cannot be finalized from its current status"
	msgPaymentInitFailed = "failed to initiate payment"
	msgBookingNotFound   = "booking not found"
)

type Handler struct {
	sm     StateMachine
	logger Logger
}

func NewHandler(sm StateMachine, logger Logger) *Handler {
	return &Handler{sm: sm, logger: logger}
}

// Handle POST /api/v1/bookings/{bookingId}/finalize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req FinalizeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	b, err := h.sm.Finalize(r.Context(), booking.FinalizeRequest{
		BookingID:     bookingID,
		PaymentMethod: pricing.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, domain.ErrIllegalTransition):
			handlers.RespondConflict(w, msgIllegalTransition)
		case errors.Is(err, domain.ErrPaymentInitFailed):
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentInitFailed)
		default:
			h.logger.Error("POST /bookings/%d/finalize - failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/finalize - status=%s", bookingID, b.Status)
	handlers.RespondJSON(w, http.StatusOK, FinalizeResponse{
		Status:     string(b.Status),
		InvoiceURL: b.InvoiceURL,
	})
}
