// Package audit persists security-relevant events to the audit_logs table.
package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder writes audit records.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record persists one event. actorID may be empty for anonymous events
// such as failed logins with an unknown email.
func (r *Recorder) Record(ctx context.Context, actorID, action, entity, entityID string, meta map[string]any) error {
	if r == nil {
		return errors.New("audit recorder not initialised")
	}
	if action == "" || entity == "" {
		return errors.New("audit record requires action and entity")
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at) VALUES (NULLIF($1, ''), $2, $3, $4, $5, NOW())`,
		actorID, action, entity, entityID, metaJSON)
	return err
}

// DeleteOlderThan removes audit rows past the retention window. Returns the
// number of rows removed; used by the background worker.
func (r *Recorder) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM audit_logs WHERE occurred_at < NOW() - ($1 * INTERVAL '1 day')`, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
