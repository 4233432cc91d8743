package available_days

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/availability"
)

type AvailabilityEngine interface {
	AvailableDays(ctx context.Context, staffID int64, year int, month time.Month, bundle availability.Bundle, p domain.Policy) ([]int, error)
	AvailableDaysAny(ctx context.Context, year int, month time.Month, bundle availability.Bundle, p domain.Policy) ([]int, error)
}

type PolicyProvider interface {
	GetPolicy(ctx context.Context) (domain.Policy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
