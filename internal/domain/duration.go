package domain

import "math"

// EffectiveDurationMinutes sums each service's base duration scaled by the
// staff's speed multiplier for that service, rounding each term to the
// nearest minute before summing. Shared by PricingEngine and
// AvailabilityEngine so both price and scheduling see the same duration.
func EffectiveDurationMinutes(services []*Service, staff *Staff) int {
	total := 0
	for _, svc := range services {
		total += int(math.Round(float64(svc.BaseDurationMin) * staff.SpeedFor(svc.ID)))
	}
	return total
}
