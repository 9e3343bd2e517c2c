// Package rbac holds the pure role hierarchy and module permission model.
// It performs no I/O; stored role strings and permission maps come from the
// auth store and are resolved here exactly once per request.
package rbac

import "strings"

// Role is the closed set of roles recognised by the platform. Stored role
// strings must be parsed through ParseRole; nothing outside this package
// should compare role strings directly.
type Role string

const (
	RoleReadonly       Role = "readonly"
	RoleStaff          Role = "staff"
	RoleFranchiseAdmin Role = "franchise_admin"
	RoleSuperAdmin     Role = "super_admin"
)

var roleRanks = map[Role]int{
	RoleReadonly:       0,
	RoleStaff:          1,
	RoleFranchiseAdmin: 2,
	RoleSuperAdmin:     3,
}

// ParseRole normalises a stored role string. Unknown values resolve to
// RoleReadonly so that a corrupted role column can never grant privileges;
// the second return value reports whether the input was recognised.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRanks[role]; ok {
		return role, true
	}
	return RoleReadonly, false
}

// Rank returns the position of the role in the strict total order
// readonly < staff < franchise_admin < super_admin.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r sits at or above min in the hierarchy.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}
