package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates the token does not map to a live session.
var ErrSessionNotFound = errors.New("auth: session not found")

// SessionManager issues and validates opaque session tokens backed by
// Redis. Tokens carry no claims; every validation is a fresh store read.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
}

type sessionPayload struct {
	UserID   string    `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{client: client, ttl: ttl}
}

// Issue creates a session for the user and returns the opaque token.
func (sm *SessionManager) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(sessionPayload{UserID: userID, IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	if err := sm.client.Set(ctx, sessionKey(token), payload, sm.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store session: %w", err)
	}
	// Secondary index so all sessions of a user can be revoked together.
	if err := sm.client.SAdd(ctx, userSessionsKey(userID), token).Err(); err != nil {
		return "", fmt.Errorf("auth: index session: %w", err)
	}
	return token, nil
}

// Validate resolves a token to its user id. Unknown or expired tokens
// return ErrSessionNotFound; any other error means the store is unreachable.
func (sm *SessionManager) Validate(ctx context.Context, token string) (string, error) {
	raw, err := sm.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("auth: read session: %w", err)
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", ErrSessionNotFound
	}
	if payload.UserID == "" {
		return "", ErrSessionNotFound
	}
	return payload.UserID, nil
}

// Revoke deletes a single session.
func (sm *SessionManager) Revoke(ctx context.Context, token string) error {
	userID, err := sm.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if err := sm.client.Del(ctx, sessionKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return sm.client.SRem(ctx, userSessionsKey(userID), token).Err()
}

// RevokeAll deletes every live session of a user, e.g. after a role change
// or deactivation.
func (sm *SessionManager) RevokeAll(ctx context.Context, userID string) error {
	tokens, err := sm.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := sm.client.Del(ctx, sessionKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return sm.client.Del(ctx, userSessionsKey(userID)).Err()
}

// PurgeExpired walks the per-user indexes and drops tokens whose session
// key already expired. Session keys themselves expire via TTL; only the
// index needs sweeping. Used by the background worker.
func (sm *SessionManager) PurgeExpired(ctx context.Context) (int, error) {
	removed := 0
	iter := sm.client.Scan(ctx, 0, userSessionsKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		indexKey := iter.Val()
		tokens, err := sm.client.SMembers(ctx, indexKey).Result()
		if err != nil {
			return removed, err
		}
		for _, token := range tokens {
			exists, err := sm.client.Exists(ctx, sessionKey(token)).Result()
			if err != nil {
				return removed, err
			}
			if exists == 0 {
				if err := sm.client.SRem(ctx, indexKey, token).Err(); err != nil {
					return removed, err
				}
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID string) string {
	return "user_sessions:" + userID
}
