package quote

import (
	"context"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

type PricingEngine interface {
	Price(ctx context.Context, req pricing.Request, p domain.Policy) (*pricing.Snapshot, error)
}

type CatalogService interface {
	GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
}

type PolicyProvider interface {
	GetPolicy(ctx context.Context) (domain.Policy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
