package domain

import (
	"time"

	"github.com/m04kA/booking-core/pkg/types"
)

// LocalInterval is a half-open [Open, Close) span of a single calendar day,
// expressed in the business's local time-of-day. Used for staff working
// windows and breaks.
type LocalInterval struct {
	Open  types.TimeString
	Close types.TimeString
}

// Contains reports whether [start, start+duration) fits entirely in iv.
func (iv LocalInterval) Contains(start types.TimeString, durationMinutes int) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	return !start.IsBefore(iv.Open) && !end.IsAfter(iv.Close)
}

// Instant is a half-open [Start, End) span anchored to real UTC instants,
// the unit the AvailabilityEngine and BookingStateMachine both work in.
type Instant struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether iv and other's half-open intervals intersect.
func (iv Instant) Overlaps(other Instant) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// ToUTCOnDate anchors a LocalInterval onto a calendar date in loc, returning
// the equivalent UTC instant.
func (iv LocalInterval) ToUTCOnDate(date time.Time, loc *time.Location) Instant {
	return Instant{
		Start: iv.Open.OnDate(date, loc).UTC(),
		End:   iv.Close.OnDate(date, loc).UTC(),
	}
}
