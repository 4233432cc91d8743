package list_staff

import (
	"context"

	"github.com/m04kA/booking-core/internal/domain"
)

type CatalogService interface {
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
