package availability

import (
	"sort"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
)

// freeIntervalsInWindow returns what remains of window after removing
// every interval in cuts that intersects it. cuts need not be sorted or
// disjoint.
func freeIntervalsInWindow(window domain.Instant, cuts []domain.Instant) []domain.Instant {
	relevant := make([]domain.Instant, 0, len(cuts))
	for _, c := range cuts {
		if c.Overlaps(window) {
			start := c.Start
			if start.Before(window.Start) {
				start = window.Start
			}
			end := c.End
			if end.After(window.End) {
				end = window.End
			}
			if start.Before(end) {
				relevant = append(relevant, domain.Instant{Start: start, End: end})
			}
		}
	}
	if len(relevant) == 0 {
		return []domain.Instant{window}
	}

	sort.Slice(relevant, func(i, j int) bool { return relevant[i].Start.Before(relevant[j].Start) })

	var free []domain.Instant
	cursor := window.Start
	for _, c := range relevant {
		if c.Start.After(cursor) {
			free = append(free, domain.Instant{Start: cursor, End: c.Start})
		}
		if c.End.After(cursor) {
			cursor = c.End
		}
	}
	if cursor.Before(window.End) {
		free = append(free, domain.Instant{Start: cursor, End: window.End})
	}
	return free
}

// roomAfter reports whether start's full duration fits inside some free
// sub-interval, and if so how much of that sub-interval remains after
// start — the "room after" distance SlotsAny uses to break ties between
// staff offering the same instant.
func roomAfter(start time.Time, duration time.Duration, free []domain.Instant) (time.Duration, bool) {
	end := start.Add(duration)
	for _, iv := range free {
		if !start.Before(iv.Start) && !end.After(iv.End) {
			return iv.End.Sub(start), true
		}
	}
	return 0, false
}

// slotCandidate is a legal start instant together with how much free room
// is left in its containing interval after it, the raw material for
// SlotsAny's staff tie-break.
type slotCandidate struct {
	Start     time.Time
	RoomAfter time.Duration
}

// windowSlots walks one working window on the grid starting at its own
// open instant, emitting every start whose full duration fits inside a
// free sub-interval of the window.
func windowSlots(window domain.Instant, effectiveDuration time.Duration, grid time.Duration, free []domain.Instant) []slotCandidate {
	var out []slotCandidate
	for t := window.Start; !t.Add(effectiveDuration).After(window.End); t = t.Add(grid) {
		if room, ok := roomAfter(t, effectiveDuration, free); ok {
			out = append(out, slotCandidate{Start: t, RoomAfter: room})
		}
	}
	return out
}

// slotsForStaffOnDate implements the core algorithm from the per-staff
// slot search: working windows minus breaks minus occupied intervals,
// walked on the slot grid, filtered by lead time and the future window.
func slotsForStaffOnDate(
	staff *domain.Staff,
	date time.Time,
	loc *time.Location,
	effectiveDurationMin int,
	occupied []domain.Instant,
	p domain.Policy,
	now time.Time,
) []slotCandidate {
	wd := date.Weekday()
	working := staff.WorkingWindowsOn(wd)
	if len(working) == 0 {
		return nil
	}

	breaks := staff.BreaksOn(wd)
	breakInstants := make([]domain.Instant, 0, len(breaks))
	for _, b := range breaks {
		breakInstants = append(breakInstants, b.ToUTCOnDate(date, loc))
	}

	duration := time.Duration(effectiveDurationMin) * time.Minute
	grid := time.Duration(p.SlotGridMinutes) * time.Minute
	earliestStart := now.Add(time.Duration(p.LeadTimeMinutes) * time.Minute)
	latestStart := now.AddDate(0, 0, p.FutureWindowDays)

	var out []slotCandidate
	for _, w := range working {
		window := w.ToUTCOnDate(date, loc)
		cuts := append(append([]domain.Instant(nil), breakInstants...), occupied...)
		free := freeIntervalsInWindow(window, cuts)
		for _, c := range windowSlots(window, duration, grid, free) {
			if c.Start.Before(earliestStart) || c.Start.After(latestStart) {
				continue
			}
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
