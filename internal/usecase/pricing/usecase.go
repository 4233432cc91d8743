// Package pricing computes the PricingSnapshot attached to a booking:
// the original price, any online-payment discount, and the effective
// duration of the bundle on the chosen staff member. All money
// arithmetic is integer, on minor currency units; no floats in money
// paths.
package pricing

import (
	"context"
	"fmt"

	"github.com/m04kA/booking-core/internal/domain"
)

type Engine struct {
	catalog CatalogService
	logger  Logger
}

func NewEngine(catalog CatalogService, logger Logger) *Engine {
	return &Engine{catalog: catalog, logger: logger}
}

// Price computes a Snapshot for req under policy p.
func (e *Engine) Price(ctx context.Context, req Request, p domain.Policy) (*Snapshot, error) {
	if len(req.ServiceIDs) == 0 {
		return nil, ErrEmptyBundle
	}

	services, err := e.catalog.GetServices(ctx, req.ServiceIDs)
	if err != nil {
		e.logger.Error("Price: failed to load services: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	staff, err := e.catalog.GetStaff(ctx, req.StaffID)
	if err != nil {
		e.logger.Warn("Price: staff id=%d not found: %v", req.StaffID, err)
		return nil, ErrStaffNotFound
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	var originalMinor int64
	currency := ""
	ordered := make([]*domain.Service, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		svc, ok := byID[id]
		if !ok {
			e.logger.Warn("Price: service id=%d not found", id)
			return nil, fmt.Errorf("%w: service id=%d not found", ErrInternal, id)
		}
		if currency == "" {
			currency = svc.Currency
		} else if svc.Currency != currency {
			return nil, ErrMixedCurrency
		}
		originalMinor += svc.BasePriceMinor
		ordered = append(ordered, svc)
	}
	effectiveDuration := domain.EffectiveDurationMinutes(ordered, staff)

	var discountMinor int64
	discountPercent := 0
	if req.PaymentMethod == PaymentOnline && p.OnlineEnabled && p.OnlineDiscountPercent > 0 {
		discountPercent = p.OnlineDiscountPercent
		discountMinor = originalMinor * int64(discountPercent) / 100
	}

	snap := &Snapshot{
		OriginalMinor:     originalMinor,
		DiscountMinor:     discountMinor,
		DiscountPercent:   discountPercent,
		FinalMinor:        originalMinor - discountMinor,
		Currency:          currency,
		EffectiveDuration: effectiveDuration,
	}

	e.logger.Info("Price: bundle=%v staff=%d final=%d %s", req.ServiceIDs, req.StaffID, snap.FinalMinor, snap.Currency)
	return snap, nil
}
