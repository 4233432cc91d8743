package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/pkg/dbmetrics"
	"github.com/m04kA/booking-core/pkg/psqlbuilder"
)

var columns = []string{
	"hold_ttl_minutes",
	"reschedule_lock_hours",
	"cancel_lock_hours",
	"lead_time_minutes",
	"future_window_days",
	"slot_grid_minutes",
	"online_discount_percent",
	"online_enabled",
	"business_timezone",
	"currency",
	"reminder_lead_minutes",
	"settings_cache_ttl_seconds",
	"max_reschedules",
}

// Repository reads and writes the single policies row (id=1) that holds
// every tunable scheduling setting.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPolicy loads the live policy row, filling any unset numeric field
// from domain's package defaults.
func (r *Repository) GetPolicy(ctx context.Context) (domain.Policy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("policies").
		Where(squirrel.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return domain.Policy{}, fmt.Errorf("%w: GetPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Policy
	var reminderLead sql.NullInt64
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.HoldTTLMinutes, &p.RescheduleLockHours, &p.CancelLockHours,
		&p.LeadTimeMinutes, &p.FutureWindowDays, &p.SlotGridMinutes,
		&p.OnlineDiscountPercent, &p.OnlineEnabled,
		&p.BusinessTimezone, &p.Currency, &reminderLead,
		&p.SettingsCacheTTLSeconds, &p.MaxReschedules,
	)
	if err == sql.ErrNoRows {
		return domain.Policy{}.WithDefaults(), nil
	}
	if err != nil {
		return domain.Policy{}, fmt.Errorf("%w: GetPolicy - scan policy: %v", ErrScanRow, err)
	}
	if reminderLead.Valid {
		lead := int(reminderLead.Int64)
		p.ReminderLeadMinutes = &lead
	}
	return p.WithDefaults(), nil
}

// UpsertPolicy writes the single policy row, creating it on first use.
func (r *Repository) UpsertPolicy(ctx context.Context, p domain.Policy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("policies").
		Columns(append([]string{"id"}, columns...)...).
		Values(append([]interface{}{1},
			p.HoldTTLMinutes, p.RescheduleLockHours, p.CancelLockHours,
			p.LeadTimeMinutes, p.FutureWindowDays, p.SlotGridMinutes,
			p.OnlineDiscountPercent, p.OnlineEnabled,
			p.BusinessTimezone, p.Currency, p.ReminderLeadMinutes,
			p.SettingsCacheTTLSeconds, p.MaxReschedules,
		)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			hold_ttl_minutes = EXCLUDED.hold_ttl_minutes,
			reschedule_lock_hours = EXCLUDED.reschedule_lock_hours,
			cancel_lock_hours = EXCLUDED.cancel_lock_hours,
			lead_time_minutes = EXCLUDED.lead_time_minutes,
			future_window_days = EXCLUDED.future_window_days,
			slot_grid_minutes = EXCLUDED.slot_grid_minutes,
			online_discount_percent = EXCLUDED.online_discount_percent,
			online_enabled = EXCLUDED.online_enabled,
			business_timezone = EXCLUDED.business_timezone,
			currency = EXCLUDED.currency,
			reminder_lead_minutes = EXCLUDED.reminder_lead_minutes,
			settings_cache_ttl_seconds = EXCLUDED.settings_cache_ttl_seconds,
			max_reschedules = EXCLUDED.max_reschedules`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertPolicy - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertPolicy - execute upsert: %v", ErrExecQuery, err)
	}
	return nil
}
