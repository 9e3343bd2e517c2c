package franchises

import "time"

// Franchise is a tenant of the platform.
type Franchise struct {
	ID        string
	Name      string
	City      string
	IsActive  bool
	CreatedAt time.Time
}
