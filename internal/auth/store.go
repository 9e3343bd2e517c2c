package auth

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("auth: not found")

// Store is the narrow read interface the resolver needs from the user and
// franchise tables. Implementations must honour context cancellation.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetFranchiseByID(ctx context.Context, id string) (*Franchise, error)
}

// SessionValidator resolves an opaque token to a user id.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}
