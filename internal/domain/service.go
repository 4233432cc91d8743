package domain

// Service is a bookable offering: a fixed base duration and price, a
// currency, and the set of staff skills required to perform it.
type Service struct {
	ID              int64
	Name            string
	BaseDurationMin int
	BasePriceMinor  int64
	Currency        string
	RequiredSkills  []string
	Visible         bool
}

// Valid reports the invariants from spec.md §3: duration >= 1, price >= 0.
func (s *Service) Valid() bool {
	return s.BaseDurationMin >= 1 && s.BasePriceMinor >= 0
}

// Bundle is an ordered, non-empty sequence of service ids performed
// back-to-back on a single staff member.
type Bundle []int64

func (b Bundle) Valid() bool {
	return len(b) > 0
}
