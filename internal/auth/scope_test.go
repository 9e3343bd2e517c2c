package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/rbac"
)

func principal(role rbac.Role, franchiseID *string) auth.Principal {
	return auth.Principal{
		ID:          "u1",
		Email:       "a@b.com",
		Role:        role,
		FranchiseID: franchiseID,
		IsActive:    true,
		Permissions: rbac.Derive(role, nil),
	}
}

var openPolicy = auth.ScopePolicy{AllowUnscoped: true}

func TestAuthorizeInactive(t *testing.T) {
	p := principal(rbac.RoleStaff, strptr("f1"))
	p.IsActive = false
	failure := auth.Authorize(&p, auth.Requirement{}, openPolicy)
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindAuthenticationFailed, failure.Kind)
	assert.Equal(t, 401, failure.HTTPStatus)
}

func TestAuthorizeInsufficientRole(t *testing.T) {
	p := principal(rbac.RoleStaff, strptr("f1"))
	failure := auth.Authorize(&p, auth.Requirement{MinRole: rbac.RoleFranchiseAdmin}, openPolicy)
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindInsufficientRole, failure.Kind)
	assert.Equal(t, 403, failure.HTTPStatus)
}

func TestAuthorizeMissingPermission(t *testing.T) {
	p := principal(rbac.RoleFranchiseAdmin, strptr("f1"))
	p.Permissions = rbac.Derive(p.Role, map[string]bool{rbac.ModuleStaff: false})
	failure := auth.Authorize(&p, auth.Requirement{MinRole: rbac.RoleStaff, Permission: rbac.ModuleStaff}, openPolicy)
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindMissingPermission, failure.Kind)
}

func TestAuthorizeCrossTenant(t *testing.T) {
	roles := []rbac.Role{rbac.RoleReadonly, rbac.RoleStaff, rbac.RoleFranchiseAdmin}
	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			p := principal(role, strptr("f1"))
			failure := auth.Authorize(&p, auth.Requirement{Target: &auth.Target{FranchiseID: strptr("f2")}}, openPolicy)
			require.NotNil(t, failure, "role %s must be isolated to its tenant", role)
			assert.Equal(t, auth.KindCrossTenant, failure.Kind)
			assert.Equal(t, 403, failure.HTTPStatus)
		})
	}
}

func TestAuthorizeSameTenant(t *testing.T) {
	p := principal(rbac.RoleStaff, strptr("f1"))
	assert.Nil(t, auth.Authorize(&p, auth.Requirement{Target: &auth.Target{FranchiseID: strptr("f1")}}, openPolicy))
}

func TestAuthorizeSuperAdminBypass(t *testing.T) {
	targets := []*auth.Target{
		nil,
		{FranchiseID: strptr("f2")},
		{FranchiseID: nil},
	}
	for _, target := range targets {
		p := principal(rbac.RoleSuperAdmin, nil)
		assert.Nil(t, auth.Authorize(&p, auth.Requirement{Target: target}, auth.ScopePolicy{AllowUnscoped: false}),
			"super admin must never be denied on tenant grounds")
	}
}

func TestAuthorizeUnscopedTargetPolicy(t *testing.T) {
	p := principal(rbac.RoleStaff, strptr("f1"))
	req := auth.Requirement{Target: &auth.Target{FranchiseID: nil}}

	assert.Nil(t, auth.Authorize(&p, req, auth.ScopePolicy{AllowUnscoped: true}))

	failure := auth.Authorize(&p, req, auth.ScopePolicy{AllowUnscoped: false})
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindCrossTenant, failure.Kind)
}

func TestAuthorizeMissingFranchiseAssignment(t *testing.T) {
	p := principal(rbac.RoleStaff, nil)
	failure := auth.Authorize(&p, auth.Requirement{}, openPolicy)
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindAuthenticationFailed, failure.Kind)
}

func TestEffectiveScope(t *testing.T) {
	super := principal(rbac.RoleSuperAdmin, strptr("f1"))
	assert.Nil(t, auth.EffectiveScope(&super), "super admin scope is unrestricted even with a stored franchise")

	staff := principal(rbac.RoleStaff, strptr("f1"))
	scope := auth.EffectiveScope(&staff)
	require.NotNil(t, scope)
	assert.Equal(t, "f1", *scope)
}
