// Package catalog is the read-only view of services and staff: what can
// be booked, who can perform it, and when they work. Reads are fronted by
// a TTL-bounded cache that is invalidated on write events rather than
// polled, per the settings-cache contract.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
)

type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger Logger
}

func NewService(repo Repository, cache Cache, ttl time.Duration, logger Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// RegisterInvalidation subscribes the service to CatalogInvalidated events
// so cached entries for changed services/staff drop immediately.
func (s *Service) RegisterInvalidation(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.CatalogInvalidated{}.Name(), func(ctx context.Context, evt eventbus.Event) {
		inv := evt.(eventbus.CatalogInvalidated)
		keys := make([]string, 0, len(inv.ServiceIDs)+len(inv.StaffIDs)+2)
		keys = append(keys, servicesListKey(), staffListKey())
		for _, id := range inv.ServiceIDs {
			keys = append(keys, serviceKey(id))
		}
		for _, id := range inv.StaffIDs {
			keys = append(keys, staffKey(id))
		}
		if err := s.cache.Delete(ctx, keys...); err != nil {
			s.logger.Warn("RegisterInvalidation: cache delete failed: %v", err)
		}
	})
}

func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	key := servicesListKey()
	var services []*domain.Service
	if s.readCached(ctx, key, &services) {
		return services, nil
	}

	services, err := s.repo.ListServices(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.writeCached(ctx, key, services)
	return services, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	key := serviceKey(id)
	var svc domain.Service
	if s.readCached(ctx, key, &svc) {
		return &svc, nil
	}

	got, err := s.repo.GetService(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.writeCached(ctx, key, got)
	return got, nil
}

func (s *Service) GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	got, err := s.repo.GetServices(ctx, ids)
	if err != nil {
		s.logger.Error("GetServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return got, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	key := staffListKey()
	var staff []*domain.Staff
	if s.readCached(ctx, key, &staff) {
		return staff, nil
	}

	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		s.logger.Error("ListStaff: repository error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.writeCached(ctx, key, staff)
	return staff, nil
}

func (s *Service) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	key := staffKey(id)
	var st domain.Staff
	if s.readCached(ctx, key, &st) {
		return &st, nil
	}

	got, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaff: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.writeCached(ctx, key, got)
	return got, nil
}

// StaffForService returns the staff linked to the service in
// staff_services, as the repository returns them. No skill filtering is
// applied here: a linked staff member whose skills do not cover the
// service's required skills is still returned. The result is not cached.
func (s *Service) StaffForService(ctx context.Context, serviceID int64) ([]*domain.Staff, error) {
	staff, err := s.repo.StaffForService(ctx, serviceID)
	if err != nil {
		s.logger.Error("StaffForService: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return staff, nil
}

func (s *Service) readCached(ctx context.Context, key string, out interface{}) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("catalog cache read failed for key=%s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("catalog cache decode failed for key=%s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) writeCached(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("catalog cache encode failed for key=%s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed for key=%s: %v", key, err)
	}
}

func servicesListKey() string       { return "catalog:services:all" }
func serviceKey(id int64) string    { return fmt.Sprintf("catalog:service:%d", id) }
func staffListKey() string          { return "catalog:staff:all" }
func staffKey(id int64) string      { return fmt.Sprintf("catalog:staff:%d", id) }
