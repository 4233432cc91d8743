package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/booking-core/internal/config"
	"github.com/m04kA/booking-core/internal/eventbus"
	auditlogRepo "github.com/m04kA/booking-core/internal/infra/storage/auditlog"
	bookingRepo "github.com/m04kA/booking-core/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/booking-core/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/booking-core/internal/infra/storage/policy"
	paymentsClient "github.com/m04kA/booking-core/internal/integrations/payments"
	notifierIntegration "github.com/m04kA/booking-core/internal/integrations/notifier"
	"github.com/m04kA/booking-core/internal/notify"
	catalogService "github.com/m04kA/booking-core/internal/service/catalog"
	policyGate "github.com/m04kA/booking-core/internal/service/policy"
	pricingUC "github.com/m04kA/booking-core/internal/usecase/pricing"
	bookingUC "github.com/m04kA/booking-core/internal/usecase/booking"
	"github.com/m04kA/booking-core/internal/worker"
	"github.com/m04kA/booking-core/pkg/dbmetrics"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/m04kA/booking-core/pkg/metrics"
	"github.com/m04kA/booking-core/pkg/simpletxmanager"
	"github.com/m04kA/booking-core/pkg/txmanager"
)

// TxManager mirrors the interface api-server's main.go declares; the
// lifecycle worker binary runs independently (a separate replica from
// the API process) but drives the same state machine, so it needs the
// same transaction-manager shape.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// This binary runs only the three time-driven lifecycle workers, with no
// HTTP surface, so it can be scaled and deployed independently of the
// API process per the worker-isolation note in the deployment design.
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-core lifecycle-worker...")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cache := catalogService.NewRedisCache(redisClient)

	var (
		bookingRepository *bookingRepo.Repository
		catalogRepository *catalogRepo.Repository
		policyRepository  *policyRepo.Repository
		auditRepository   *auditlogRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		auditRepository = auditlogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		auditRepository = auditlogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	bus := eventbus.New(log)
	eventbus.RegisterAuditLog(bus, auditRepository, log)

	catalogSvc := catalogService.NewService(
		catalogRepository,
		cache,
		time.Duration(cfg.Policy.SettingsCacheTTLSeconds)*time.Second,
		log,
	)
	catalogSvc.RegisterInvalidation(bus)

	pricingEngine := pricingUC.NewEngine(catalogSvc, log)
	gate := policyGate.NewGate(log)

	payments := paymentsClient.NewClient(
		cfg.Payments.URL,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		log,
	)

	sm := bookingUC.NewStateMachine(
		bookingRepository,
		policyRepository,
		pricingEngine,
		gate,
		payments,
		txMgr,
		bus,
		log,
	)

	notifierClient := notifierIntegration.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	notifyQueue := notify.NewQueue(notifierClient, log, 256)
	notifySvc := notify.NewService(notifyQueue)
	notifySvc.RegisterHandlers(bus)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go notifyQueue.Run(ctx)

	holdExpirer := worker.NewHoldExpirer(
		bookingRepository, sm,
		time.Duration(cfg.Worker.HoldExpirerIntervalSeconds)*time.Second,
		cfg.Worker.BatchSize, log,
	)
	reminderDispatcher := worker.NewReminderDispatcher(
		bookingRepository, policyRepository, bus,
		time.Duration(cfg.Worker.ReminderDispatchIntervalSeconds)*time.Second,
		cfg.Worker.BatchSize, log,
	)
	paymentReconciler := worker.NewPaymentReconciler(
		bookingRepository, sm, payments,
		time.Duration(cfg.Worker.ReconcileIntervalSeconds)*time.Second,
		15*time.Minute,
		cfg.Worker.BatchSize, log,
	)

	go holdExpirer.Run(ctx)
	go reminderDispatcher.Run(ctx)
	go paymentReconciler.Run(ctx)
	log.Info("Lifecycle workers running (hold_expirer=%ds reminder_dispatcher=%ds reconciler=%ds)",
		cfg.Worker.HoldExpirerIntervalSeconds, cfg.Worker.ReminderDispatchIntervalSeconds, cfg.Worker.ReconcileIntervalSeconds)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down lifecycle-worker...")
	stop()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
	}
	time.Sleep(500 * time.Millisecond)
	log.Info("lifecycle-worker stopped")
}
