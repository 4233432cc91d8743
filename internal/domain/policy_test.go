package domain

import "testing"

func TestPolicyWithDefaults(t *testing.T) {
	p := Policy{BusinessTimezone: "Europe/Moscow", Currency: "RUB"}.WithDefaults()

	if p.HoldTTLMinutes != DefaultHoldTTLMinutes {
		t.Fatalf("HoldTTLMinutes = %d, want %d", p.HoldTTLMinutes, DefaultHoldTTLMinutes)
	}
	if p.MaxReschedules != DefaultMaxReschedules {
		t.Fatalf("MaxReschedules = %d, want %d", p.MaxReschedules, DefaultMaxReschedules)
	}
	if p.BusinessTimezone != "Europe/Moscow" {
		t.Fatalf("BusinessTimezone was overwritten: %q", p.BusinessTimezone)
	}
}

func TestPolicyWithDefaultsPreservesExplicitValues(t *testing.T) {
	p := Policy{HoldTTLMinutes: 5, MaxReschedules: 1}.WithDefaults()

	if p.HoldTTLMinutes != 5 {
		t.Fatalf("HoldTTLMinutes = %d, want 5", p.HoldTTLMinutes)
	}
	if p.MaxReschedules != 1 {
		t.Fatalf("MaxReschedules = %d, want 1", p.MaxReschedules)
	}
}
