package slots

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/availability"
)

type AvailabilityEngine interface {
	Slots(ctx context.Context, staffID int64, localDate time.Time, bundle availability.Bundle, p domain.Policy) ([]time.Time, error)
	SlotsAny(ctx context.Context, localDate time.Time, bundle availability.Bundle, p domain.Policy) ([]availability.StaffSlot, error)
}

type PolicyProvider interface {
	GetPolicy(ctx context.Context) (domain.Policy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
