package hold_booking

import (
	"context"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/booking"
)

type StateMachine interface {
	Hold(ctx context.Context, req booking.HoldRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
