package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	billingapp "github.com/crm/backend/internal/application/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run schema migration", zap.Error(err))
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Initialize snapshot cache (Redis when enabled, in-memory otherwise)
	cacheFactory := cache.NewSnapshotCacheFactory(cfg.Redis, cache.WithLogger(log))
	snapshotCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create snapshot cache", zap.Error(err))
	}

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, serviceRepo, txScope, eventBus)
	recurringService := billingapp.NewRecurringBillingService(invoiceRepo, serviceRepo, txScope, eventBus)
	dashboardService := billingapp.NewDashboardService(invoiceRepo, customerRepo, serviceRepo, snapshotCache, cfg.Dashboard.CacheTTL)

	// Drop the cached dashboard snapshot whenever domain data changes
	eventBus.Subscribe(event.NewHandlerFunc(func(ctx context.Context, _ shared.DomainEvent) error {
		return dashboardService.Invalidate(ctx)
	}))

	// Warm the dashboard snapshot so the first read after startup is served
	// from cache
	if _, err := dashboardService.Get(context.Background()); err != nil {
		log.Warn("Failed to warm dashboard snapshot", zap.Error(err))
	}

	// Initialize the billing maintenance scheduler
	var (
		sched   *scheduler.Scheduler
		trigger *scheduler.IntervalTrigger
	)
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewBillingJobExecutor(invoiceService, recurringService, dashboardService, log)

		schedConfig := scheduler.DefaultSchedulerConfig()
		schedConfig.MaxConcurrentJobs = cfg.Scheduler.MaxConcurrentJobs
		schedConfig.JobTimeout = cfg.Scheduler.JobTimeout

		sched = scheduler.NewScheduler(schedConfig, executor, log)
		if err := sched.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}

		trigger = scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
			ReconcileInterval: cfg.Scheduler.ReconcileInterval,
			RecurringInterval: cfg.Scheduler.RecurringInterval,
		}, sched, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start interval trigger", zap.Error(err))
		}
	} else {
		log.Info("Scheduler disabled by configuration")
	}

	log.Info("CRM Backend started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping interval trigger", zap.Error(err))
		}
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("CRM Backend stopped")
}
