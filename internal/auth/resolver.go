package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// DefaultStoreTimeout bounds every credential store read so a stalled
// store surfaces as StoreUnavailable instead of hanging the request.
const DefaultStoreTimeout = 5 * time.Second

// Resolver turns a request's credential carriers into a verified user
// record. It keeps no state between requests.
type Resolver struct {
	carriers []Carrier
	sessions SessionValidator
	store    Store
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResolver constructs a Resolver. A zero timeout falls back to
// DefaultStoreTimeout.
func NewResolver(carriers []Carrier, sessions SessionValidator, store Store, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{carriers: carriers, sessions: sessions, store: store, timeout: timeout, logger: logger}
}

// Resolve extracts the first usable credential and validates it against the
// store. A credential that yields an identifier but fails validation is a
// hard failure: a broken provider session never silently downgrades to the
// legacy cookie.
func (rs *Resolver) Resolve(ctx context.Context, r *http.Request) (*User, *Failure) {
	for _, carrier := range rs.carriers {
		cred, ok := carrier.Extract(r)
		if !ok {
			continue
		}
		return rs.verify(ctx, cred)
	}
	return nil, failNoSession()
}

func (rs *Resolver) verify(ctx context.Context, cred Credential) (*User, *Failure) {
	ctx, cancel := context.WithTimeout(ctx, rs.timeout)
	defer cancel()

	userID := cred.UserID
	if cred.Token != "" {
		id, err := rs.sessions.Validate(ctx, cred.Token)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return nil, failAuthentication("session is invalid or expired")
			}
			rs.logger.Error("session store read failed", slog.String("source", cred.Source), slog.Any("error", err))
			return nil, failStoreUnavailable()
		}
		userID = id
	}

	user, err := rs.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, failAuthentication("account no longer exists")
		}
		rs.logger.Error("user store read failed", slog.String("source", cred.Source), slog.Any("error", err))
		return nil, failStoreUnavailable()
	}
	if !user.IsActive {
		return nil, failAuthentication("account is deactivated")
	}
	return user, nil
}
