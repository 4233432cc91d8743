package availability

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
)

// BookingRepository is the read side needed to compute free intervals:
// every slot-occupying booking (domain.Booking.OccupiesSlot, which
// includes DONE) on a staff member whose span could overlap the window
// being queried.
type BookingRepository interface {
	OccupiedIntervals(ctx context.Context, staffID int64, from, to time.Time) ([]domain.Instant, error)
}

// CatalogService is the subset of the catalog the engine needs.
type CatalogService interface {
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error)
	StaffForService(ctx context.Context, serviceID int64) ([]*domain.Staff, error)
}

// TimeProvider abstracts wall-clock time so tests can pin "now".
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
