package list_bookings

import (
	"net/http"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/api/middleware"
	"github.com/m04kA/booking-core/internal/domain"
)

const (
	msgUnauthorized = "missing or invalid X-User-ID"
	defaultLimit    = 50
)

type Handler struct {
	repo   BookingLister
	logger Logger
}

func NewHandler(repo BookingLister, logger Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Handle GET /api/v1/bookings?mode=upcoming|history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	upcoming := r.URL.Query().Get("mode") != "history"

	bookings, err := h.repo.ListForCustomer(r.Context(), customerID, upcoming, defaultLimit)
	if err != nil {
		h.logger.Error("GET /bookings - customer=%d failed: %v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, fromDomain(b))
	}
	handlers.RespondJSON(w, http.StatusOK, ListResponse{Bookings: out})
}

func fromDomain(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		StaffID:    b.StaffID,
		ServiceIDs: b.ServiceIDs,
		Status:     string(b.Status),
		StartUTC:   b.StartUTC,
		EndUTC:     b.EndUTC,
		FinalPrice: b.Pricing.FinalPriceMinor,
		Currency:   b.Pricing.Currency,
		Rating:     b.Rating,
		InvoiceURL: b.InvoiceURL,
	}
}
