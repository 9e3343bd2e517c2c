package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/rentiva/rentiva/internal/app"
	"github.com/rentiva/rentiva/internal/audit"
	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/platform/cache"
	"github.com/rentiva/rentiva/internal/platform/db"
	"github.com/rentiva/rentiva/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	sessions := auth.NewSessionManager(redisClient, cfg.SessionTTL)
	auditRecorder := audit.NewRecorder(pool)

	retentionTask, err := jobs.NewAuditRetentionTask(cfg.AuditRetentionDays)
	if err != nil {
		logger.Error("build retention task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSessionPurge, Handler: jobs.SessionPurgeHandler(sessions, logger)},
			{Type: jobs.TaskAuditRetention, Handler: jobs.AuditRetentionHandler(auditRecorder, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "17 3 * * *", Task: jobs.NewSessionPurgeTask(), Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
			{Spec: "42 4 * * 0", Task: retentionTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}
