package domain

import (
	"testing"
	"time"
)

func TestBookingStatusPredicates(t *testing.T) {
	if !StatusDone.IsTerminal() {
		t.Fatal("expected DONE to be terminal")
	}
	if StatusConfirmed.IsTerminal() {
		t.Fatal("did not expect CONFIRMED to be terminal")
	}
	if !StatusReserved.IsHold() {
		t.Fatal("expected RESERVED to be a hold")
	}
	if StatusConfirmed.IsHold() {
		t.Fatal("did not expect CONFIRMED to be a hold")
	}
	if !StatusPaid.OccupiesSlot() {
		t.Fatal("expected PAID to occupy its slot")
	}
	if StatusCancelled.OccupiesSlot() {
		t.Fatal("did not expect CANCELLED to occupy its slot")
	}
}

func TestBookingIsExpiredHold(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Minute)
	b := &Booking{Status: StatusReserved, HoldExpiresAtUTC: &expiry}

	if !b.IsExpiredHold(now) {
		t.Fatal("expected hold past its TTL to be expired")
	}

	future := now.Add(time.Minute)
	b.HoldExpiresAtUTC = &future
	if b.IsExpiredHold(now) {
		t.Fatal("did not expect hold still within TTL to be expired")
	}

	b.Status = StatusConfirmed
	b.HoldExpiresAtUTC = &expiry
	if b.IsExpiredHold(now) {
		t.Fatal("did not expect a confirmed booking to be an expired hold")
	}
}

func TestBookingCanBeCancelledAndRescheduled(t *testing.T) {
	b := &Booking{Status: StatusConfirmed}
	if !b.CanBeCancelled() {
		t.Fatal("expected CONFIRMED to be cancellable")
	}
	if !b.CanBeRescheduled() {
		t.Fatal("expected CONFIRMED to be reschedulable")
	}

	b.Status = StatusReserved
	if !b.CanBeCancelled() {
		t.Fatal("expected RESERVED to be cancellable")
	}
	if !b.CanBeRescheduled() {
		t.Fatal("expected RESERVED to be reschedulable")
	}

	b.Status = StatusDone
	if b.CanBeCancelled() {
		t.Fatal("did not expect DONE to be cancellable")
	}
}

func TestBookingCanBeRated(t *testing.T) {
	b := &Booking{Status: StatusDone}
	if !b.CanBeRated() {
		t.Fatal("expected a done booking without a rating to be ratable")
	}

	rating := 5
	b.Rating = &rating
	if b.CanBeRated() {
		t.Fatal("did not expect an already-rated booking to be ratable again")
	}
}

func TestBookingDuration(t *testing.T) {
	start := time.Date(2026, 8, 6, 9, 0, 0, 0, time.UTC)
	b := &Booking{StartUTC: start, EndUTC: start.Add(45 * time.Minute)}
	if b.Duration() != 45*time.Minute {
		t.Fatalf("Duration() = %v, want 45m", b.Duration())
	}
}
