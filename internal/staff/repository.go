package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentiva/rentiva/internal/platform/db"
	"github.com/rentiva/rentiva/internal/rbac"
)

var (
	// ErrNotFound indicates the member does not exist.
	ErrNotFound = errors.New("staff: not found")
	// ErrLastAdmin indicates the member is the last active franchise admin
	// of its tenant and cannot be removed.
	ErrLastAdmin = errors.New("staff: cannot remove the last franchise admin")
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const memberColumns = `id, email, name, role, franchise_id, is_active, created_at`

// ListByFranchise returns members of one franchise; a nil franchiseID
// returns every member (unrestricted scope).
func (r *Repository) ListByFranchise(ctx context.Context, franchiseID *string) ([]Member, error) {
	query := `SELECT ` + memberColumns + ` FROM users ORDER BY email`
	args := []any{}
	if franchiseID != nil {
		query = `SELECT ` + memberColumns + ` FROM users WHERE franchise_id = $1 ORDER BY email`
		args = append(args, *franchiseID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Email, &m.Name, &m.Role, &m.FranchiseID, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches one member.
func (r *Repository) GetByID(ctx context.Context, id string) (*Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM users WHERE id = $1`, id).
		Scan(&m.ID, &m.Email, &m.Name, &m.Role, &m.FranchiseID, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new member and returns the stored record.
func (r *Repository) Create(ctx context.Context, email, name, passwordHash, role string, franchiseID *string) (*Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role, franchise_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING `+memberColumns,
		email, name, passwordHash, role, franchiseID).
		Scan(&m.ID, &m.Email, &m.Name, &m.Role, &m.FranchiseID, &m.IsActive, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a member. The row is locked first so the last-admin check
// and the delete see the same state.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			role        string
			franchiseID *string
			isActive    bool
		)
		err := tx.QueryRow(ctx, `SELECT role, franchise_id, is_active FROM users WHERE id = $1 FOR UPDATE`, id).
			Scan(&role, &franchiseID, &isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		parsed, _ := rbac.ParseRole(role)
		if parsed == rbac.RoleFranchiseAdmin && isActive && franchiseID != nil {
			var remaining int
			err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM users WHERE franchise_id = $1 AND role = $2 AND is_active AND id <> $3`,
				*franchiseID, rbac.RoleFranchiseAdmin.String(), id).Scan(&remaining)
			if err != nil {
				return err
			}
			if remaining == 0 {
				return ErrLastAdmin
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
