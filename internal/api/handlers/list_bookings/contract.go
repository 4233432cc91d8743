package list_bookings

import (
	"context"

	"github.com/m04kA/booking-core/internal/domain"
)

type BookingLister interface {
	ListForCustomer(ctx context.Context, customerID int64, upcoming bool, limit int) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
