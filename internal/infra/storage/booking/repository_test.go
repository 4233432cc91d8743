package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/booking-core/internal/domain"
)

func columnRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func TestCreateInsertsAndReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at_utc", "updated_at_utc"}).AddRow(42, now, now))

	repo := NewRepository(db)
	b := &domain.Booking{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10, 11},
		Status: domain.StatusReserved, StartUTC: now, EndUTC: now.Add(30 * time.Minute),
		Pricing: domain.PricingSnapshot{BasePriceMinor: 1000, FinalPriceMinor: 1000, Currency: "RUB", DurationMinutes: 30},
	}
	created, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDReturnsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(columnRows())

	repo := NewRepository(db)
	_, err = repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScansBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := columnRows().AddRow(
		1, 10, 20, pq.Int64Array{100, 101}, string(domain.StatusConfirmed),
		now, now.Add(30*time.Minute),
		int64(1000), 0, int64(1000), "RUB", 30,
		nil, &now, nil, nil,
		"", "", "", nil, 0,
		now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM bookings").WillReturnRows(rows)

	repo := NewRepository(db)
	b, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, []int64{100, 101}, b.ServiceIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)
	err = repo.Update(context.Background(), &domain.Booking{ID: 7, Status: domain.StatusCancelled})
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockStaffBucketIssuesAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(2*1000003 + 5)).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)
	err = repo.LockStaffBucket(context.Background(), 2, 5)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockBookingUsesNegatedKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(-99)).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)
	err = repo.LockBooking(context.Background(), 99)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForCustomerUpcomingExcludesTerminal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").WillReturnRows(columnRows())

	repo := NewRepository(db)
	out, err := repo.ListForCustomer(context.Background(), 1, true, 50)
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExpiredHoldsAppliesLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").WillReturnRows(columnRows())

	repo := NewRepository(db)
	out, err := repo.FindExpiredHolds(context.Background(), time.Now(), 200)
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}
