package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rentiva/rentiva/internal/app"
	"github.com/rentiva/rentiva/internal/audit"
	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/bookings"
	"github.com/rentiva/rentiva/internal/franchises"
	"github.com/rentiva/rentiva/internal/observability"
	"github.com/rentiva/rentiva/internal/platform/cache"
	"github.com/rentiva/rentiva/internal/platform/db"
	"github.com/rentiva/rentiva/internal/staff"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditRecorder := audit.NewRecorder(pool)

	sessions := auth.NewSessionManager(redisClient, cfg.SessionTTL)
	store := auth.NewPGStore(pool)
	carriers := auth.DefaultCarriers(cfg.ProviderCookieName, cfg.LegacyCookieName)
	resolver := auth.NewResolver(carriers, sessions, store, cfg.StoreTimeout, logger)
	gate := auth.NewGate(resolver, auth.ScopePolicy{AllowUnscoped: cfg.AllowUnscoped}, metrics, logger)

	authHandler := auth.NewHandler(logger, store, sessions, auditRecorder, auth.CookieConfig{
		ProviderName: cfg.ProviderCookieName,
		LegacyName:   cfg.LegacyCookieName,
		Secure:       cfg.IsProduction(),
	})

	bookingsHandler := bookings.NewHandler(logger, bookings.NewRepository(pool), gate)
	franchisesHandler := franchises.NewHandler(logger, franchises.NewRepository(pool), gate)
	staffHandler := staff.NewHandler(logger, staff.NewService(staff.NewRepository(pool)), gate, auditRecorder)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		EdgeGuard:         app.NewEdgeGuard(cfg, logger),
		AuthHandler:       authHandler,
		BookingsHandler:   bookingsHandler,
		FranchisesHandler: franchisesHandler,
		StaffHandler:      staffHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
