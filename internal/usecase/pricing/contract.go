package pricing

import (
	"context"

	"github.com/m04kA/booking-core/internal/domain"
)

// CatalogService is the subset of the catalog needed to price a bundle.
type CatalogService interface {
	GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
