package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/api"
	"github.com/dorfportal/reminder-service/internal/config"
	"github.com/dorfportal/reminder-service/internal/db"
	"github.com/dorfportal/reminder-service/internal/metrics"
	"github.com/dorfportal/reminder-service/internal/push"
	"github.com/dorfportal/reminder-service/internal/ratelimiter"
	"github.com/dorfportal/reminder-service/internal/reminder"
	"github.com/dorfportal/reminder-service/internal/repository"
	"github.com/dorfportal/reminder-service/internal/scheduler"
	"github.com/dorfportal/reminder-service/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	repo := repository.NewPgReminderRepository(pool)
	transport := push.NewWebPushTransport(
		cfg.VAPIDSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey,
		cfg.PushTTL, cfg.PushTimeout,
	)
	limiter := ratelimiter.New(cfg.PushRateLimit)
	subSvc := service.NewSubscriptionService(repo, logger)

	// ---- reminder scheduler ----
	scanner := reminder.NewScanner(repo, logger)
	dispatcher := reminder.NewDispatcher(repo, transport, limiter, logger, m.DispatchHooks())
	cycle := reminder.NewService(scanner, dispatcher, cfg.AdminBaseURL, logger, m.OnDispatched())

	// Context for the background clock; cancelled on shutdown signal.
	clockCtx, cancelClock := context.WithCancel(ctx)
	defer cancelClock()

	clock := scheduler.New(cfg.ReminderInterval, cfg.SchedulerEnabled, cycle.RunCycle, logger, m.ClockHooks())
	clock.Start(clockCtx)

	// ---- HTTP server ----
	router := api.NewRouter(clockCtx, clock, subSvc, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop scheduling new reminder cycles; an in-flight cycle may finish.
	clock.Stop()
	cancelClock()

	logger.Info("server stopped cleanly")
}
