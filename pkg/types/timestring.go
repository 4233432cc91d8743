// Package types holds small value types shared across the booking core,
// chiefly a time-of-day type used for staff working windows and breaks.
package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeFormat is the wire/storage format for a TimeString, HH:MM.
const TimeFormat = "15:04"

var ErrInvalidTimeString = errors.New("types: invalid time string, expected HH:MM")

// TimeString represents a time-of-day (no date, no timezone), e.g. a staff
// working window boundary. It is always minute-precision.
type TimeString struct {
	minutes int // minutes since local midnight, 0..1439
}

// NewTimeStringFromString parses "HH:MM" into a TimeString.
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	return TimeString{minutes: t.Hour()*60 + t.Minute()}, nil
}

// NewTimeString extracts the time-of-day portion of t, in t's own location.
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute()}
}

// MustTimeString parses s and panics on error; for use with constant inputs.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether this is the unparsed zero value (midnight).
func (t TimeString) IsZero() bool {
	return t.minutes == 0
}

// Validate reports whether t is within a single day, 0..1439 minutes.
func (t TimeString) Validate() error {
	if t.minutes < 0 || t.minutes >= 24*60 {
		return ErrInvalidTimeString
	}
	return nil
}

// Minutes returns the number of minutes since local midnight.
func (t TimeString) Minutes() int {
	return t.minutes
}

// AddMinutes returns t shifted forward by n minutes. It does not wrap past
// midnight; callers that need end-of-day clamping should check the result
// against closing time before use.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	result := t.minutes + n
	if result < 0 {
		return TimeString{}, fmt.Errorf("%w: negative result", ErrInvalidTimeString)
	}
	return TimeString{minutes: result}, nil
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

// Equal reports whether t and other denote the same time-of-day.
func (t TimeString) Equal(other TimeString) bool {
	return t.minutes == other.minutes
}

// OnDate anchors t onto the calendar date of ref, in loc's location.
func (t TimeString) OnDate(ref time.Time, loc *time.Location) time.Time {
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, 0, t.minutes, 0, 0, loc)
}

// String renders t as "HH:MM".
func (t TimeString) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}
