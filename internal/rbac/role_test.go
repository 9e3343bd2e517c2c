package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/rbac"
)

func TestRankStrictOrder(t *testing.T) {
	order := []rbac.Role{rbac.RoleReadonly, rbac.RoleStaff, rbac.RoleFranchiseAdmin, rbac.RoleSuperAdmin}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Rank(), order[i-1].Rank(), "%s must outrank %s", order[i], order[i-1])
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  rbac.Role
		known bool
	}{
		{"staff", rbac.RoleStaff, true},
		{"SUPER_ADMIN", rbac.RoleSuperAdmin, true},
		{"  franchise_admin ", rbac.RoleFranchiseAdmin, true},
		{"readonly", rbac.RoleReadonly, true},
		{"owner", rbac.RoleReadonly, false},
		{"", rbac.RoleReadonly, false},
	}
	for _, tc := range tests {
		role, known := rbac.ParseRole(tc.input)
		assert.Equal(t, tc.want, role, "input %q", tc.input)
		assert.Equal(t, tc.known, known, "input %q", tc.input)
	}
}

func TestUnknownRoleNeverOutranksReadonly(t *testing.T) {
	role, known := rbac.ParseRole("administrator")
	require.False(t, known)
	assert.False(t, role.AtLeast(rbac.RoleStaff))
}

func TestAtLeast(t *testing.T) {
	assert.True(t, rbac.RoleSuperAdmin.AtLeast(rbac.RoleReadonly))
	assert.True(t, rbac.RoleStaff.AtLeast(rbac.RoleStaff))
	assert.False(t, rbac.RoleStaff.AtLeast(rbac.RoleFranchiseAdmin))
	assert.False(t, rbac.Role("unknown").AtLeast(rbac.RoleReadonly))
}
