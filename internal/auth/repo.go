package auth

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PostgreSQL-backed store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const userColumns = `id, email, password_hash, role, franchise_id, is_active, permissions`

// GetUserByID fetches a user record by id.
func (s *PGStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail fetches a user record by email.
func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetFranchiseByID fetches a franchise record, display use only.
func (s *PGStore) GetFranchiseByID(ctx context.Context, id string) (*Franchise, error) {
	var franchise Franchise
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM franchises WHERE id = $1`, id).
		Scan(&franchise.ID, &franchise.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &franchise, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user     User
		rawPerms []byte
	)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.FranchiseID, &user.IsActive, &rawPerms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// A NULL permissions column means no explicit record exists; the rbac
	// layer then synthesises role defaults. A stored JSON object, even {},
	// stays explicit.
	if rawPerms != nil {
		perms := make(map[string]bool)
		if err := json.Unmarshal(rawPerms, &perms); err != nil {
			return nil, err
		}
		user.Permissions = perms
	}
	return &user, nil
}

var _ Store = (*PGStore)(nil)
