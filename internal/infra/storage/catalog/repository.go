package catalog

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
	"github.com/m04kA/booking-core/pkg/types"
)

// Repository is the Postgres-backed store for services and staff, the
// read side the catalog service's cache fronts.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var serviceColumns = []string{
	"id", "name", "base_duration_min", "base_price_minor", "currency", "required_skills", "visible",
}

func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"visible": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	services, err := r.GetServices(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, ErrServiceNotFound
	}
	return services[0], nil
}

func (r *Repository) GetServices(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func scanServices(rows *sql.Rows) ([]*domain.Service, error) {
	var out []*domain.Service
	for rows.Next() {
		var s domain.Service
		var skills pq.StringArray
		if err := rows.Scan(&s.ID, &s.Name, &s.BaseDurationMin, &s.BasePriceMinor, &s.Currency, &skills, &s.Visible); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		s.RequiredSkills = []string(skills)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *Repository) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "display_name").
		From("staff").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - execute query: %v", ErrExecQuery, err)
	}
	var staff []*domain.Staff
	var ids []int64
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.DisplayName); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		staff = append(staff, &s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.hydrateStaff(ctx, staff, ids); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *Repository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	staff, err := r.getStaffByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrStaffNotFound
	}
	return staff[0], nil
}

func (r *Repository) StaffForService(ctx context.Context, serviceID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("staff_id").
		From("staff_services").
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: StaffForService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: StaffForService - execute query: %v", ErrExecQuery, err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.getStaffByIDs(ctx, ids)
}

func (r *Repository) getStaffByIDs(ctx context.Context, ids []int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "display_name").
		From("staff").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getStaffByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getStaffByIDs - execute query: %v", ErrExecQuery, err)
	}
	var staff []*domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.DisplayName); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		staff = append(staff, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.hydrateStaff(ctx, staff, ids); err != nil {
		return nil, err
	}
	return staff, nil
}

// hydrateStaff fills Skills, WorkingDays, Breaks, and Speed for the given
// staff rows. ids selects the child rows to load; they are matched to the
// staff rows by id, so the two need not be in the same order.
func (r *Repository) hydrateStaff(ctx context.Context, staff []*domain.Staff, ids []int64) error {
	if len(staff) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Staff, len(staff))
	for _, s := range staff {
		s.Skills = map[string]struct{}{}
		s.WorkingDays = map[time.Weekday][]domain.LocalInterval{}
		s.Breaks = map[time.Weekday][]domain.LocalInterval{}
		s.Speed = map[int64]float64{}
		byID[s.ID] = s
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.loadSkills(ctx, executor, byID, ids); err != nil {
		return err
	}
	if err := r.loadIntervals(ctx, executor, "working_windows", byID, ids, false); err != nil {
		return err
	}
	if err := r.loadIntervals(ctx, executor, "breaks", byID, ids, true); err != nil {
		return err
	}
	if err := r.loadSpeeds(ctx, executor, byID, ids); err != nil {
		return err
	}
	return nil
}

func (r *Repository) loadSkills(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Staff, ids []int64) error {
	query, args, err := psqlbuilder.Select("staff_id", "skill").
		From("staff_skills").
		Where(squirrel.Eq{"staff_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSkills - build select query: %v", ErrBuildQuery, err)
	}
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSkills - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	for rows.Next() {
		var staffID int64
		var skill string
		if err := rows.Scan(&staffID, &skill); err != nil {
			return fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		if s, ok := byID[staffID]; ok {
			s.Skills[skill] = struct{}{}
		}
	}
	return rows.Err()
}

func (r *Repository) loadIntervals(ctx context.Context, executor DBExecutor, table string, byID map[int64]*domain.Staff, ids []int64, isBreak bool) error {
	query, args, err := psqlbuilder.Select("staff_id", "weekday", "open_time", "close_time").
		From(table).
		Where(squirrel.Eq{"staff_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadIntervals(%s) - build select query: %v", ErrBuildQuery, table, err)
	}
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadIntervals(%s) - execute query: %v", ErrExecQuery, table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var staffID int64
		var weekday int
		var openStr, closeStr string
		if err := rows.Scan(&staffID, &weekday, &openStr, &closeStr); err != nil {
			return fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		s, ok := byID[staffID]
		if !ok {
			continue
		}
		open, err := types.NewTimeStringFromString(openStr)
		if err != nil {
			return fmt.Errorf("%w: loadIntervals(%s) - parse open_time: %v", ErrScanRow, table, err)
		}
		closeT, err := types.NewTimeStringFromString(closeStr)
		if err != nil {
			return fmt.Errorf("%w: loadIntervals(%s) - parse close_time: %v", ErrScanRow, table, err)
		}
		wd := time.Weekday(weekday)
		iv := domain.LocalInterval{Open: open, Close: closeT}
		if isBreak {
			s.Breaks[wd] = append(s.Breaks[wd], iv)
		} else {
			s.WorkingDays[wd] = append(s.WorkingDays[wd], iv)
		}
	}
	return rows.Err()
}

func (r *Repository) loadSpeeds(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Staff, ids []int64) error {
	query, args, err := psqlbuilder.Select("staff_id", "service_id", "speed").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSpeeds - build select query: %v", ErrBuildQuery, err)
	}
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSpeeds - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()
	for rows.Next() {
		var staffID, serviceID int64
		var speed sql.NullFloat64
		if err := rows.Scan(&staffID, &serviceID, &speed); err != nil {
			return fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		s, ok := byID[staffID]
		if !ok {
			continue
		}
		if speed.Valid && speed.Float64 > 0 {
			s.Speed[serviceID] = speed.Float64
		}
	}
	return rows.Err()
}
