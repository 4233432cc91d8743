package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/booking-core/pkg/dbmetrics"
	"github.com/m04kA/booking-core/pkg/psqlbuilder"
)

// Repository appends rows to booking_events, the durable append-only
// trail of every domain event the bus has dispatched. A write failure
// here never unwinds the transaction that produced the event — by the
// time RegisterAuditLog's subscriber runs, that transaction has already
// committed — so callers only log it.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertEvent appends one row. bookingID is nil for events that are not
// scoped to a single booking (CatalogInvalidated).
func (r *Repository) InsertEvent(ctx context.Context, eventType string, bookingID *int64, payload []byte, occurredAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_events").
		Columns("booking_id", "event_type", "payload", "occurred_at").
		Values(bookingID, eventType, string(payload), occurredAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertEvent - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertEvent - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}
