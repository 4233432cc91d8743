package pricing

import (
	"context"
	"testing"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	services map[int64]*domain.Service
	staff    map[int64]*domain.Staff
}

func (c *fakeCatalog) GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	var out []*domain.Service
	for _, id := range ids {
		if s, ok := c.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	s, ok := c.staff[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func newFixture() *fakeCatalog {
	return &fakeCatalog{
		services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Haircut", BaseDurationMin: 30, BasePriceMinor: 1000, Currency: "RUB"},
			2: {ID: 2, Name: "Beard trim", BaseDurationMin: 15, BasePriceMinor: 500, Currency: "RUB"},
			3: {ID: 3, Name: "Import", BaseDurationMin: 30, BasePriceMinor: 1000, Currency: "USD"},
		},
		staff: map[int64]*domain.Staff{
			1: {ID: 1, Speed: map[int64]float64{1: 1.5}},
		},
	}
}

func TestPriceCashNoDiscount(t *testing.T) {
	e := NewEngine(newFixture(), logger.NewNop())
	snap, err := e.Price(context.Background(), Request{ServiceIDs: []int64{1, 2}, StaffID: 1, PaymentMethod: PaymentCash},
		domain.Policy{OnlineEnabled: true, OnlineDiscountPercent: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(1500), snap.OriginalMinor)
	assert.Equal(t, int64(0), snap.DiscountMinor)
	assert.Equal(t, int64(1500), snap.FinalMinor)
	assert.Equal(t, "RUB", snap.Currency)
	// haircut: 30 * 1.5 = 45, beard trim: 15 * 1.0 (no speed entry) = 15
	assert.Equal(t, 60, snap.EffectiveDuration)
}

func TestPriceOnlineDiscount(t *testing.T) {
	e := NewEngine(newFixture(), logger.NewNop())
	snap, err := e.Price(context.Background(), Request{ServiceIDs: []int64{1, 2}, StaffID: 1, PaymentMethod: PaymentOnline},
		domain.Policy{OnlineEnabled: true, OnlineDiscountPercent: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(300), snap.DiscountMinor)
	assert.Equal(t, int64(1200), snap.FinalMinor)
}

func TestPriceOnlineDiscountDisabledByPolicy(t *testing.T) {
	e := NewEngine(newFixture(), logger.NewNop())
	snap, err := e.Price(context.Background(), Request{ServiceIDs: []int64{1}, StaffID: 1, PaymentMethod: PaymentOnline},
		domain.Policy{OnlineEnabled: false, OnlineDiscountPercent: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(0), snap.DiscountMinor)
}

func TestPriceMixedCurrencyRejected(t *testing.T) {
	e := NewEngine(newFixture(), logger.NewNop())
	_, err := e.Price(context.Background(), Request{ServiceIDs: []int64{1, 3}, StaffID: 1, PaymentMethod: PaymentCash}, domain.Policy{})
	assert.ErrorIs(t, err, ErrMixedCurrency)
}

func TestPriceEmptyBundleRejected(t *testing.T) {
	e := NewEngine(newFixture(), logger.NewNop())
	_, err := e.Price(context.Background(), Request{ServiceIDs: nil, StaffID: 1}, domain.Policy{})
	assert.ErrorIs(t, err, ErrEmptyBundle)
}

func TestPriceStaffNotFound(t *testing.T) {
	e := NewEngine(newFixture(), logger.NewNop())
	_, err := e.Price(context.Background(), Request{ServiceIDs: []int64{1}, StaffID: 999}, domain.Policy{})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
