package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/booking-core/internal/api"
	"github.com/m04kA/booking-core/internal/api/handlers/available_days"
	"github.com/m04kA/booking-core/internal/api/handlers/cancel_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/check_slot"
	"github.com/m04kA/booking-core/internal/api/handlers/finalize_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/hold_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/list_bookings"
	"github.com/m04kA/booking-core/internal/api/handlers/list_services"
	"github.com/m04kA/booking-core/internal/api/handlers/list_staff"
	"github.com/m04kA/booking-core/internal/api/handlers/quote"
	"github.com/m04kA/booking-core/internal/api/handlers/rate_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/booking-core/internal/api/handlers/slots"
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
	availabilityUC "github.com/m04kA/booking-core/internal/usecase/availability"
	bookingUC "github.com/m04kA/booking-core/internal/usecase/booking"
	pricingUC "github.com/m04kA/booking-core/internal/usecase/pricing"
	"github.com/m04kA/booking-core/internal/worker"
	"github.com/m04kA/booking-core/pkg/dbmetrics"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/m04kA/booking-core/pkg/metrics"
	"github.com/m04kA/booking-core/pkg/simpletxmanager"
	"github.com/m04kA/booking-core/pkg/txmanager"
)

// TxManager is the subset of txmanager/simpletxmanager the booking state
// machine needs; which concrete type backs it depends on whether metrics
// collection is enabled.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting booking-core api-server...")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
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
	log.Info("Connected to database (host=%s, port=%d, db=%s)", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

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

	catalogSvc := catalogService.NewService(
		catalogRepository,
		cache,
		time.Duration(cfg.Policy.SettingsCacheTTLSeconds)*time.Second,
		log,
	)
	catalogSvc.RegisterInvalidation(bus)

	availabilityEngine := availabilityUC.NewEngine(bookingRepository, catalogSvc, log)
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
	go notifyQueue.Run(context.Background())

	eventbus.RegisterAuditLog(bus, auditRepository, log)

	handlers := api.Handlers{
		ListServices:      list_services.NewHandler(catalogSvc, log),
		ListStaff:         list_staff.NewHandler(catalogSvc, log),
		AvailableDays:     available_days.NewHandler(availabilityEngine, policyRepository, log),
		Slots:             slots.NewHandler(availabilityEngine, policyRepository, log),
		CheckSlot:         check_slot.NewHandler(availabilityEngine, policyRepository, log),
		Quote:             quote.NewHandler(pricingEngine, catalogSvc, policyRepository, log),
		HoldBooking:       hold_booking.NewHandler(sm, log),
		FinalizeBooking:   finalize_booking.NewHandler(sm, log),
		RescheduleBooking: reschedule_booking.NewHandler(sm, log),
		CancelBooking:     cancel_booking.NewHandler(sm, log),
		RateBooking:       rate_booking.NewHandler(sm, log),
		ListBookings:      list_bookings.NewHandler(bookingRepository, log),
	}

	router := api.NewRouter(handlers, metricsCollector, cfg.Metrics.ServiceName, cfg.Metrics.Path, log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
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
	go holdExpirer.Run(workerCtx)
	go reminderDispatcher.Run(workerCtx)
	go paymentReconciler.Run(workerCtx)
	log.Info("Lifecycle workers started in-process alongside the API server")

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancelWorkers()

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
