package franchises

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the franchise does not exist.
var ErrNotFound = errors.New("franchises: not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all franchises ordered by name.
func (r *Repository) List(ctx context.Context) ([]Franchise, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, city, is_active, created_at FROM franchises ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Franchise
	for rows.Next() {
		var f Franchise
		if err := rows.Scan(&f.ID, &f.Name, &f.City, &f.IsActive, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID fetches one franchise.
func (r *Repository) GetByID(ctx context.Context, id string) (*Franchise, error) {
	var f Franchise
	err := r.pool.QueryRow(ctx, `SELECT id, name, city, is_active, created_at FROM franchises WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.City, &f.IsActive, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}
