package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tejwal_backend/internal/adapters/linker"
	"tejwal_backend/internal/adapters/storage"
	"tejwal_backend/internal/audit"
	"tejwal_backend/internal/customers"
	"tejwal_backend/internal/delivery"
	"tejwal_backend/internal/email"
	"tejwal_backend/internal/events"
	apphttp "tejwal_backend/internal/http"
	"tejwal_backend/internal/http/router"
	"tejwal_backend/internal/notification"
	"tejwal_backend/internal/quotes"
	quotesvc "tejwal_backend/internal/quotes/service"
	"tejwal_backend/internal/scheduler"
	"tejwal_backend/internal/users"
	usersrepo "tejwal_backend/internal/users/repository"
	"tejwal_backend/platform/config"
	"tejwal_backend/platform/db"
	"tejwal_backend/platform/logger"
	"tejwal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Object storage for externally rendered quote documents. Optional: the
	// delivery path degrades to text-only messages without it.
	var storageSvc *storage.MinIOService
	if cfg.IsMinIOEnabled() {
		storageSvc, err = storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure quote documents bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		log.Info("storage service initialized", "bucket", cfg.GetMinioBucketQuoteDocuments())
	} else {
		log.Warn("MinIO not configured; document delivery disabled")
	}

	// Delivery queue client. Optional: without redis, send requests are
	// acknowledged and dropped with a warning.
	var enqueuer quotesvc.DeliveryEnqueuer
	schedulerClient, closeScheduler := initSchedulerClient(cfg, log)
	if schedulerClient != nil {
		defer closeScheduler()
		enqueuer = schedulerClient
	} else {
		enqueuer = quotes.NoopEnqueuer{Log: log}
	}

	// ========================================================================
	// Domain modules (composition root)
	// ========================================================================

	auditModule := audit.NewModule(pool, log)
	customersModule := customers.NewModule(pool, val, log)

	quotesModule := quotes.NewModule(pool, quotes.Dependencies{
		Customers:  linker.New(customersModule.Service()),
		Audit:      auditModule.Service(),
		Delivery:   enqueuer,
		Activities: auditModule.Service(),
		Bus:        eventBus,
	}, val, log, cfg.GetAppBaseURL())

	usersModule := users.NewModule(pool, auditModule.Service(), val, log)

	var emailSender email.Sender
	if s := email.NewSMTPSender(cfg); s != nil {
		emailSender = s
	}
	notification.NewModule(eventBus, emailSender, usersrepo.New(pool), log)

	// ========================================================================
	// HTTP layer + delivery worker
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			quotesModule,
			customersModule,
			auditModule,
			usersModule,
		},
	}

	engine := router.New(app)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: engine}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if schedulerClient != nil {
		whatsappClient := delivery.NewWhatsAppClient(cfg, log)
		sender := delivery.NewSender(whatsappClient, cfg.GetDeliveryTimeout(), log)

		var presigner scheduler.DocumentPresigner
		if storageSvc != nil {
			presigner = storageSvc
		}
		worker, err := scheduler.NewWorker(cfg, quotesModule.Service(), sender, presigner, log)
		if err != nil {
			log.Error("failed to initialize delivery worker", "error", err)
			panic("failed to initialize delivery worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func initSchedulerClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background delivery disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize delivery queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
