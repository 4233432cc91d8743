package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/lib/pq"

	"github.com/m04kA/booking-core/internal/config"
	"github.com/m04kA/booking-core/internal/domain"
	policyRepo "github.com/m04kA/booking-core/internal/infra/storage/policy"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/m04kA/booking-core/pkg/psqlbuilder"
)

// Fills an empty database with a small, internally-consistent catalog:
// a handful of services, a roster of staff covering their skills, and
// the policy row every other operation reads. Intended for local
// development and demo environments, not production data migration.
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	gofakeit.Seed(0)
	ctx := context.Background()

	skillSet := []string{"haircut", "coloring", "manicure", "pedicure", "massage", "skincare"}

	serviceIDs, err := seedServices(ctx, db, skillSet)
	if err != nil {
		log.Fatal("seed services: %v", err)
	}
	log.Info("seeded %d services", len(serviceIDs))

	staffCount := 12
	if err := seedStaff(ctx, db, staffCount, skillSet, serviceIDs); err != nil {
		log.Fatal("seed staff: %v", err)
	}
	log.Info("seeded %d staff", staffCount)

	policyRepository := policyRepo.NewRepository(db)
	p := domain.Policy{
		BusinessTimezone:        cfg.Policy.BusinessTimezone,
		Currency:                cfg.Policy.Currency,
		HoldTTLMinutes:          cfg.Policy.HoldTTLMinutes,
		RescheduleLockHours:     cfg.Policy.RescheduleLockHours,
		CancelLockHours:         cfg.Policy.CancelLockHours,
		LeadTimeMinutes:         cfg.Policy.LeadTimeMinutes,
		FutureWindowDays:        cfg.Policy.FutureWindowDays,
		SlotGridMinutes:         cfg.Policy.SlotGridMinutes,
		OnlineDiscountPercent:   cfg.Policy.OnlineDiscountPercent,
		OnlineEnabled:           cfg.Policy.OnlineEnabled,
		SettingsCacheTTLSeconds: cfg.Policy.SettingsCacheTTLSeconds,
		MaxReschedules:          cfg.Policy.MaxReschedules,
	}
	if cfg.Policy.ReminderLeadMinutes > 0 {
		lead := cfg.Policy.ReminderLeadMinutes
		p.ReminderLeadMinutes = &lead
	}
	if err := policyRepository.UpsertPolicy(ctx, p.WithDefaults()); err != nil {
		log.Fatal("seed policy: %v", err)
	}
	log.Info("seeded policy row (timezone=%s currency=%s)", p.BusinessTimezone, p.Currency)

	log.Info("seed complete")
}

func seedServices(ctx context.Context, db *sql.DB, skills []string) ([]int64, error) {
	names := []string{
		"Haircut", "Hair Coloring", "Manicure", "Pedicure", "Deep Tissue Massage",
		"Facial Skincare", "Blowout", "Gel Polish", "Hot Stone Massage", "Keratin Treatment",
	}
	currencies := []string{"USD"}

	var ids []int64
	for i, name := range names {
		reqSkill := skills[i%len(skills)]
		duration := 30 + (i%6)*15
		price := int64(2000 + (i%5)*1500)

		query, args, err := psqlbuilder.Insert("services").
			Columns("name", "base_duration_min", "base_price_minor", "currency", "required_skills", "visible").
			Values(name, duration, price, currencies[0], pq.StringArray{reqSkill}, true).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert: %w", err)
		}

		var id int64
		if err := db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert service %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedStaff(ctx context.Context, db *sql.DB, count int, skills []string, serviceIDs []int64) error {
	for i := 0; i < count; i++ {
		name := gofakeit.Name()

		query, args, err := psqlbuilder.Insert("staff").
			Columns("display_name").
			Values(name).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		var staffID int64
		if err := db.QueryRowContext(ctx, query, args...).Scan(&staffID); err != nil {
			return fmt.Errorf("insert staff %q: %w", name, err)
		}

		staffSkillCount := 2 + rand.Intn(3)
		assigned := pickN(skills, staffSkillCount)
		for _, skill := range assigned {
			if err := insertRow(ctx, db, "staff_skills", []string{"staff_id", "skill"}, staffID, skill); err != nil {
				return err
			}
		}

		for _, serviceID := range serviceIDs {
			speed := 0.85 + rand.Float64()*0.3
			if err := insertRow(ctx, db, "staff_services",
				[]string{"staff_id", "service_id", "speed"}, staffID, serviceID, speed); err != nil {
				return err
			}
		}

		for wd := time.Monday; wd <= time.Saturday; wd++ {
			if err := insertRow(ctx, db, "working_windows",
				[]string{"staff_id", "weekday", "open_time", "close_time"}, staffID, int(wd), "09:00", "18:00"); err != nil {
				return err
			}
		}
		if err := insertRow(ctx, db, "breaks",
			[]string{"staff_id", "weekday", "open_time", "close_time"}, staffID, int(time.Monday), "13:00", "14:00"); err != nil {
			return err
		}
	}
	return nil
}

func insertRow(ctx context.Context, db *sql.DB, table string, cols []string, vals ...interface{}) error {
	query, args, err := psqlbuilder.Insert(table).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert into %s: %w", table, err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func pickN(items []string, n int) []string {
	if n >= len(items) {
		return items
	}
	shuffled := make([]string, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}
