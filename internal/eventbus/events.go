package eventbus

import "time"

// Event is the common envelope for everything published on the bus.
// Name is used for subscriber filtering and for the audit log row.
type Event interface {
	Name() string
}

type BookingHeld struct {
	BookingID  int64
	CustomerID int64
	StaffID    int64
	StartUTC   time.Time
	OccurredAt time.Time
}

func (BookingHeld) Name() string { return "booking.held" }

type BookingConfirmed struct {
	BookingID  int64
	CustomerID int64
	OccurredAt time.Time
}

func (BookingConfirmed) Name() string { return "booking.confirmed" }

type BookingRescheduled struct {
	BookingID  int64
	NewStart   time.Time
	OccurredAt time.Time
}

func (BookingRescheduled) Name() string { return "booking.rescheduled" }

type BookingCancelled struct {
	BookingID  int64
	CustomerID int64
	Reason     string
	OccurredAt time.Time
}

func (BookingCancelled) Name() string { return "booking.cancelled" }

type HoldExpired struct {
	BookingID  int64
	OccurredAt time.Time
}

func (HoldExpired) Name() string { return "booking.hold_expired" }

type InvoiceIssued struct {
	BookingID   int64
	AmountMinor int64
	Currency    string
	OccurredAt  time.Time
}

func (InvoiceIssued) Name() string { return "booking.invoice_issued" }

type PaymentFailed struct {
	BookingID  int64
	Reason     string
	OccurredAt time.Time
}

func (PaymentFailed) Name() string { return "booking.payment_failed" }

// CatalogInvalidated is published by admin flows whenever a service or
// staff record changes, so the catalog's settings cache can drop the
// affected entries instead of waiting out its TTL.
type CatalogInvalidated struct {
	ServiceIDs []int64
	StaffIDs   []int64
	OccurredAt time.Time
}

func (CatalogInvalidated) Name() string { return "catalog.invalidated" }

type ReminderDue struct {
	BookingID   int64
	CustomerID  int64
	StartUTC    time.Time
	LeadMinutes int
	OccurredAt  time.Time
}

func (ReminderDue) Name() string { return "booking.reminder_due" }
