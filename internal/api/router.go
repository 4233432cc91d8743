// Package api wires the per-operation handler packages onto a gorilla/mux
// router. It holds no business logic of its own.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/booking-core/internal/api/handlers/available_days"
	"github.com/m04kA/booking-core/internal/api/handlers/cancel_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/check_slot"
	"github.com/m04kA/booking-core/internal/api/handlers/finalize_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/hold_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/list_bookings"
	"github.com/m04kA/booking-core/internal/api/handlers/list_services"
	"github.com/m04kA/booking-core/internal/api/handlers/list_staff"
	"github.com/m04kA/booking-core/internal/api/handlers/quote"
	"github.com/m04kA/booking-core/internal/api/handlers/rate_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/slots"
	"github.com/m04kA/booking-core/internal/api/middleware"
	"github.com/m04kA/booking-core/pkg/metrics"
)

// Handlers collects every per-operation handler the router dispatches to.
// main constructs this struct by wiring each handler's NewHandler against
// the concrete services/usecases/repositories it needs.
type Handlers struct {
	ListServices      *list_services.Handler
	ListStaff         *list_staff.Handler
	AvailableDays     *available_days.Handler
	Slots             *slots.Handler
	CheckSlot         *check_slot.Handler
	Quote             *quote.Handler
	HoldBooking       *hold_booking.Handler
	FinalizeBooking   *finalize_booking.Handler
	RescheduleBooking *reschedule_booking.Handler
	CancelBooking     *cancel_booking.Handler
	RateBooking       *rate_booking.Handler
	ListBookings      *list_bookings.Handler
}

// RecoverLogger is the narrow logger the panic-recovery middleware needs.
type RecoverLogger = middleware.Logger

// NewRouter builds the full HTTP router: a metrics endpoint (if m is
// non-nil), a public catalog/availability surface, and a protected
// booking-lifecycle surface behind middleware.Auth.
func NewRouter(h Handlers, m *metrics.Metrics, serviceName string, metricsPath string, log RecoverLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(log))

	if m != nil {
		r.Use(middleware.MetricsMiddleware(m, serviceName))
		r.Handle(metricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public catalog and availability browsing, no actor required.
	api.HandleFunc("/services", h.ListServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff", h.ListStaff.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/days", h.AvailableDays.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/slots", h.Slots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/check", h.CheckSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/quote", h.Quote.Handle).Methods(http.MethodPost)

	// Booking lifecycle behind middleware.Auth, which stashes X-User-ID and
	// X-Actor-Role on the context without rejecting anything; the list and
	// hold handlers respond 401 when the user id is missing.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", h.ListBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/holds", h.HoldBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/finalize", h.FinalizeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", h.RescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", h.CancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/rate", h.RateBooking.Handle).Methods(http.MethodPost)

	return r
}
