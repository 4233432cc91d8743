package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/pkg/dbmetrics"
	"github.com/m04kA/booking-core/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"customer_id",
	"staff_id",
	"service_ids",
	"status",
	"starts_at_utc",
	"ends_at_utc",
	"base_price_minor",
	"discount_percent",
	"final_price_minor",
	"currency",
	"duration_minutes",
	"hold_expires_at_utc",
	"confirmed_at_utc",
	"paid_at_utc",
	"cancelled_at_utc",
	"cancel_reason",
	"invoice_ref",
	"invoice_url",
	"rating",
	"reschedule_counter",
	"created_at_utc",
	"updated_at_utc",
}

// Repository is the Postgres-backed store for bookings. It satisfies both
// usecase/booking.Repository (transactional state-machine writes) and
// worker.Repository (batch finders for the lifecycle workers).
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id", "staff_id", "service_ids", "status",
			"starts_at_utc", "ends_at_utc",
			"base_price_minor", "discount_percent", "final_price_minor", "currency", "duration_minutes",
			"hold_expires_at_utc", "cancel_reason", "invoice_ref", "invoice_url", "reschedule_counter",
		).
		Values(
			b.CustomerID, b.StaffID, pq.Array(b.ServiceIDs), b.Status,
			b.StartUTC, b.EndUTC,
			b.Pricing.BasePriceMinor, b.Pricing.DiscountPercent, b.Pricing.FinalPriceMinor, b.Pricing.Currency, b.Pricing.DurationMinutes,
			b.HoldExpiresAtUTC, b.CancelReason, b.InvoiceRef, b.InvoiceURL, b.RescheduleCounter,
		).
		Suffix("RETURNING id, created_at_utc, updated_at_utc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	out := *b
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&out.ID, &out.CreatedAtUTC, &out.UpdatedAtUTC); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return &out, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	return b, nil
}

func (r *Repository) Update(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", b.Status).
		Set("starts_at_utc", b.StartUTC).
		Set("ends_at_utc", b.EndUTC).
		Set("hold_expires_at_utc", b.HoldExpiresAtUTC).
		Set("confirmed_at_utc", b.ConfirmedAtUTC).
		Set("paid_at_utc", b.PaidAtUTC).
		Set("cancelled_at_utc", b.CancelledAtUTC).
		Set("cancel_reason", b.CancelReason).
		Set("invoice_ref", b.InvoiceRef).
		Set("invoice_url", b.InvoiceURL).
		Set("rating", b.Rating).
		Set("reschedule_counter", b.RescheduleCounter).
		Set("updated_at_utc", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - rows affected: %v", ErrExecQuery, err)
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// OverlappingBookings returns every booking for staffID that occupies a
// slot and overlaps [start, end), excluding excludeID when set (a
// reschedule's own row).
func (r *Repository) OverlappingBookings(ctx context.Context, staffID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	occupying := []string{
		string(domain.StatusReserved), string(domain.StatusPendingPayment),
		string(domain.StatusConfirmed), string(domain.StatusPaid), string(domain.StatusDone),
	}

	sb := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"status": occupying}).
		Where(squirrel.Lt{"starts_at_utc": end}).
		Where(squirrel.Gt{"ends_at_utc": start})

	if excludeID != nil {
		sb = sb.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OverlappingBookings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OverlappingBookings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// OccupiedIntervals returns the [start, end) span of every booking for
// staffID that occupies a slot and falls within [from, to), for the
// AvailabilityEngine to subtract from a staff member's working windows.
// Same occupying-status set as OverlappingBookings, without the exclude
// filter since availability reads never need to ignore one booking's own row.
func (r *Repository) OccupiedIntervals(ctx context.Context, staffID int64, from, to time.Time) ([]domain.Instant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	occupying := []string{
		string(domain.StatusReserved), string(domain.StatusPendingPayment),
		string(domain.StatusConfirmed), string(domain.StatusPaid), string(domain.StatusDone),
	}

	query, args, err := psqlbuilder.Select("starts_at_utc", "ends_at_utc").
		From("bookings").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"status": occupying}).
		Where(squirrel.Lt{"starts_at_utc": to}).
		Where(squirrel.Gt{"ends_at_utc": from}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var out []domain.Instant
	for rows.Next() {
		var iv domain.Instant
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("%w: OccupiedIntervals - scan row: %v", ErrScanRow, err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupiedIntervals - rows iteration: %v", ErrScanRow, err)
	}
	return out, nil
}

// LockStaffBucket acquires a transaction-scoped advisory lock for one
// (staff_id, hour_bucket) pair. Auto-releases on commit or rollback.
func (r *Repository) LockStaffBucket(ctx context.Context, staffID, bucket int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	key := staffID*1000003 + bucket
	_, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key)
	if err != nil {
		return fmt.Errorf("%w: LockStaffBucket: %v", ErrExecQuery, err)
	}
	return nil
}

// LockBooking acquires a transaction-scoped advisory lock on a single
// booking row, used to serialize all status transitions for that booking.
// Negated to keep this lock's key space disjoint from staff-bucket keys.
func (r *Repository) LockBooking(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", -bookingID)
	if err != nil {
		return fmt.Errorf("%w: LockBooking: %v", ErrExecQuery, err)
	}
	return nil
}

// FindExpiredHolds is the HoldExpirer worker's candidate query.
func (r *Repository) FindExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"status": []string{string(domain.StatusReserved), string(domain.StatusPendingPayment)}}).
		Where(squirrel.LtOrEq{"hold_expires_at_utc": now}).
		OrderBy("hold_expires_at_utc ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindExpiredHolds - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindExpiredHolds - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// FindDueReminders is the ReminderDispatcher worker's candidate query.
func (r *Repository) FindDueReminders(ctx context.Context, windowStart, windowEnd time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"status": []string{string(domain.StatusConfirmed), string(domain.StatusPaid)}}).
		Where(squirrel.Gt{"starts_at_utc": windowStart}).
		Where(squirrel.LtOrEq{"starts_at_utc": windowEnd}).
		OrderBy("starts_at_utc ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindDueReminders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindDueReminders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// FindStalePendingPayment is the PaymentReconciler worker's candidate query.
func (r *Repository) FindStalePendingPayment(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"status": string(domain.StatusPendingPayment)}).
		Where(squirrel.Lt{"updated_at_utc": olderThan}).
		OrderBy("updated_at_utc ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindStalePendingPayment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindStalePendingPayment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListForCustomer returns a customer's bookings, either the upcoming set
// (non-terminal, ordered soonest first) or their history (terminal,
// ordered most recent first).
func (r *Repository) ListForCustomer(ctx context.Context, customerID int64, upcoming bool, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sb := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		Limit(uint64(limit))

	terminal := []string{
		string(domain.StatusDone), string(domain.StatusExpired),
		string(domain.StatusCancelled), string(domain.StatusNoShow),
	}
	if upcoming {
		sb = sb.Where(squirrel.NotEq{"status": terminal}).OrderBy("starts_at_utc ASC")
	} else {
		sb = sb.Where(squirrel.Eq{"status": terminal}).OrderBy("starts_at_utc DESC")
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var serviceIDs pq.Int64Array
	if err := row.Scan(
		&b.ID, &b.CustomerID, &b.StaffID, &serviceIDs, &b.Status,
		&b.StartUTC, &b.EndUTC,
		&b.Pricing.BasePriceMinor, &b.Pricing.DiscountPercent, &b.Pricing.FinalPriceMinor, &b.Pricing.Currency, &b.Pricing.DurationMinutes,
		&b.HoldExpiresAtUTC, &b.ConfirmedAtUTC, &b.PaidAtUTC, &b.CancelledAtUTC,
		&b.CancelReason, &b.InvoiceRef, &b.InvoiceURL, &b.Rating, &b.RescheduleCounter,
		&b.CreatedAtUTC, &b.UpdatedAtUTC,
	); err != nil {
		return nil, err
	}
	b.ServiceIDs = []int64(serviceIDs)
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
