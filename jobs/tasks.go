// Package jobs holds the asynq task definitions and the worker runtime.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge sweeps expired tokens out of the per-user session
	// indexes. Session keys themselves expire via TTL.
	TaskSessionPurge = "auth:session_purge"
	// TaskAuditRetention deletes audit rows past the retention window.
	TaskAuditRetention = "audit:retention"
)

// SessionPurger is implemented by the auth session manager.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// AuditPruner is implemented by the audit recorder.
type AuditPruner interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// NewSessionPurgeTask constructs the session purge task.
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPurge, nil)
}

// AuditRetentionPayload carries the retention window.
type AuditRetentionPayload struct {
	Days int `json:"days"`
}

// NewAuditRetentionTask constructs the audit retention task.
func NewAuditRetentionTask(days int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditRetentionPayload{Days: days})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}

// SessionPurgeHandler returns the asynq handler for TaskSessionPurge.
func SessionPurgeHandler(purger SessionPurger, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := purger.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("session purge complete", slog.Int("removed", removed))
		}
		return nil
	}
}

// AuditRetentionHandler returns the asynq handler for TaskAuditRetention.
func AuditRetentionHandler(pruner AuditPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditRetentionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Days <= 0 {
			return asynq.SkipRetry
		}
		removed, err := pruner.DeleteOlderThan(ctx, payload.Days)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("audit retention complete", slog.Int64("removed", removed))
		}
		return nil
	}
}
