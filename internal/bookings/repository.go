package bookings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the booking does not exist.
var ErrNotFound = errors.New("bookings: not found")

// RepositoryPort defines data access methods for bookings.
type RepositoryPort interface {
	List(ctx context.Context, franchiseID *string) ([]Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookingColumns = `id, franchise_id, customer_name, item_name, start_date, end_date, status, total_amount, created_at`

// List returns bookings under the given scope filter. A nil franchiseID
// means unrestricted scope and returns every row.
func (r *Repository) List(ctx context.Context, franchiseID *string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY start_date DESC`
	args := []any{}
	if franchiseID != nil {
		query = `SELECT ` + bookingColumns + ` FROM bookings WHERE franchise_id = $1 ORDER BY start_date DESC`
		args = append(args, *franchiseID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.FranchiseID, &b.CustomerName, &b.ItemName, &b.StartDate, &b.EndDate, &b.Status, &b.TotalAmount, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID fetches one booking.
func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	err := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id).
		Scan(&b.ID, &b.FranchiseID, &b.CustomerName, &b.ItemName, &b.StartDate, &b.EndDate, &b.Status, &b.TotalAmount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete removes a booking.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
