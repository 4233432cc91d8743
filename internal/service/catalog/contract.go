package catalog

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
)

// Repository is the read side of the primary store for services and staff.
type Repository interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	StaffForService(ctx context.Context, serviceID int64) ([]*domain.Staff, error)
}

// Cache fronts Repository reads with a TTL-bounded store, invalidated on
// write events rather than on a fixed schedule.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
