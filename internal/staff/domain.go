package staff

import "time"

// Member is a user account managed within a franchise.
type Member struct {
	ID          string
	Email       string
	Name        string
	Role        string
	FranchiseID *string
	IsActive    bool
	CreatedAt   time.Time
}
