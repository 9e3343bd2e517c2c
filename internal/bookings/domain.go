package bookings

import "time"

// Booking is a rental reservation. FranchiseID is nil on unscoped legacy
// rows imported before tenants existed.
type Booking struct {
	ID           string
	FranchiseID  *string
	CustomerName string
	ItemName     string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	TotalAmount  int64
	CreatedAt    time.Time
}
