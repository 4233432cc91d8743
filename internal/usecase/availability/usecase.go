// Package availability computes legal booking start times from a staff
// member's working calendar, minus breaks, minus whatever is already
// occupying their schedule. It never writes; callers must re-verify at
// booking time since the store can change between the read here and the
// write in BookingStateMachine.Hold.
package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
)

type Engine struct {
	bookingRepo  BookingRepository
	catalog      CatalogService
	timeProvider TimeProvider
	logger       Logger
}

func NewEngine(bookingRepo BookingRepository, catalog CatalogService, logger Logger) *Engine {
	return &Engine{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

func (e *Engine) loadStaffAndDuration(ctx context.Context, staffID int64, bundle Bundle) (*domain.Staff, int, error) {
	staff, err := e.catalog.GetStaff(ctx, staffID)
	if err != nil {
		e.logger.Warn("availability: staff id=%d not found: %v", staffID, err)
		return nil, 0, ErrStaffNotFound
	}
	services, err := e.catalog.GetServices(ctx, bundle)
	if err != nil {
		e.logger.Error("availability: failed to load services: %v", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return staff, domain.EffectiveDurationMinutes(services, staff), nil
}

// slotCandidatesFor loads staff, occupied intervals, and the legal start
// instants for staffID on localDate, each paired with its room-after
// distance. Shared by Slots (which only needs the starts) and SlotsAny
// (which needs the room-after distance to break ties between staff).
func (e *Engine) slotCandidatesFor(ctx context.Context, staffID int64, localDate time.Time, bundle Bundle, p domain.Policy) ([]slotCandidate, error) {
	loc, err := time.LoadLocation(p.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid business timezone %q", ErrInternal, p.BusinessTimezone)
	}

	staff, effectiveDuration, err := e.loadStaffAndDuration(ctx, staffID, bundle)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, loc)
	occupied, err := e.bookingRepo.OccupiedIntervals(ctx, staffID, dayStart.Add(-24*time.Hour), dayStart.Add(48*time.Hour))
	if err != nil {
		e.logger.Error("availability: failed to load occupied intervals for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	now := e.timeProvider.Now()
	return slotsForStaffOnDate(staff, dayStart, loc, effectiveDuration, occupied, p, now), nil
}

// Slots returns every legal start instant for bundle on staffID on
// localDate, in the business timezone described by p.
func (e *Engine) Slots(ctx context.Context, staffID int64, localDate time.Time, bundle Bundle, p domain.Policy) ([]time.Time, error) {
	if len(bundle) == 0 {
		return nil, ErrInvalidInput
	}

	candidates, err := e.slotCandidatesFor(ctx, staffID, localDate, bundle, p)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(candidates))
	for i, c := range candidates {
		out[i] = c.Start
	}
	return out, nil
}

// AvailableDays returns the set of calendar days in (year, month) for
// which Slots is non-empty.
func (e *Engine) AvailableDays(ctx context.Context, staffID int64, year int, month time.Month, bundle Bundle, p domain.Policy) ([]int, error) {
	loc, err := time.LoadLocation(p.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid business timezone %q", ErrInternal, p.BusinessTimezone)
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	var days []int
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		slots, err := e.Slots(ctx, staffID, date, bundle, p)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			days = append(days, d)
		}
	}
	return days, nil
}

// SlotsAny returns legal starts across every staff member who can
// perform the bundle, one entry per distinct instant. When more than one
// staff member is free at the same instant, the one with the most room
// after it — the farthest next-occupied boundary or working-window close
// from the start — wins, lowest staff id breaking ties; this spreads
// bookings toward staff with the most slack instead of always picking
// whichever staff happened to be listed first.
func (e *Engine) SlotsAny(ctx context.Context, localDate time.Time, bundle Bundle, p domain.Policy) ([]StaffSlot, error) {
	if len(bundle) == 0 {
		return nil, ErrInvalidInput
	}

	staff, err := e.eligibleStaff(ctx, bundle)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrNoSkillMatch
	}

	best := make(map[time.Time]StaffSlot)
	bestRoom := make(map[time.Time]time.Duration)
	for _, s := range staff {
		candidates, err := e.slotCandidatesFor(ctx, s.ID, localDate, bundle, p)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			current, seen := best[c.Start]
			if !seen ||
				c.RoomAfter > bestRoom[c.Start] ||
				(c.RoomAfter == bestRoom[c.Start] && s.ID < current.StaffID) {
				best[c.Start] = StaffSlot{StaffID: s.ID, Start: c.Start}
				bestRoom[c.Start] = c.RoomAfter
			}
		}
	}

	out := make([]StaffSlot, 0, len(best))
	for _, slot := range best {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// AvailableDaysAny returns the set of days in (year, month) for which
// SlotsAny is non-empty.
func (e *Engine) AvailableDaysAny(ctx context.Context, year int, month time.Month, bundle Bundle, p domain.Policy) ([]int, error) {
	loc, err := time.LoadLocation(p.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid business timezone %q", ErrInternal, p.BusinessTimezone)
	}

	staff, err := e.eligibleStaff(ctx, bundle)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrNoSkillMatch
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	seen := make(map[int]bool)
	var days []int
	for _, s := range staff {
		for d := 1; d <= daysInMonth; d++ {
			if seen[d] {
				continue
			}
			date := time.Date(year, month, d, 0, 0, 0, 0, loc)
			slots, err := e.Slots(ctx, s.ID, date, bundle, p)
			if err != nil {
				return nil, err
			}
			if len(slots) > 0 {
				seen[d] = true
				days = append(days, d)
			}
		}
	}
	return days, nil
}

// eligibleStaff returns the intersection of staff covering every service
// in bundle, by taking StaffForService of the first service id and
// filtering by HasSkills for the rest.
func (e *Engine) eligibleStaff(ctx context.Context, bundle Bundle) ([]*domain.Staff, error) {
	services, err := e.catalog.GetServices(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	var required []string
	for _, s := range services {
		required = append(required, s.RequiredSkills...)
	}

	candidates, err := e.catalog.StaffForService(ctx, bundle[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	var out []*domain.Staff
	for _, c := range candidates {
		if c.HasSkills(required) {
			out = append(out, c)
		}
	}
	return out, nil
}
