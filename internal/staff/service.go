package staff

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/rbac"
)

// ErrSelfDelete indicates a principal tried to remove its own account.
var ErrSelfDelete = errors.New("staff: cannot delete own account")

// RepositoryPort defines data access methods for staff management.
type RepositoryPort interface {
	ListByFranchise(ctx context.Context, franchiseID *string) ([]Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, email, name, passwordHash, role string, franchiseID *string) (*Member, error)
	Delete(ctx context.Context, id string) error
}

// Service applies staff business rules on top of the repository.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the members visible under the given scope filter.
func (s *Service) List(ctx context.Context, scope *string) ([]Member, error) {
	return s.repo.ListByFranchise(ctx, scope)
}

// Get fetches a single member.
func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

// Create hashes the password and stores a new member. Callers cannot mint
// accounts above their own rank.
func (s *Service) Create(ctx context.Context, actor *auth.Context, email, name, password, roleName string, franchiseID *string) (*Member, error) {
	role, known := rbac.ParseRole(roleName)
	if !known {
		return nil, errors.New("staff: unknown role")
	}
	if role.Rank() > actor.Principal.Role.Rank() {
		return nil, errors.New("staff: cannot assign a role above your own")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, email, name, string(hash), role.String(), franchiseID)
}

// Delete removes a member, rejecting self-deletion. The last-admin rule is
// enforced transactionally by the repository.
func (s *Service) Delete(ctx context.Context, actor *auth.Context, id string) error {
	if actor.Principal.ID == id {
		return ErrSelfDelete
	}
	return s.repo.Delete(ctx, id)
}
