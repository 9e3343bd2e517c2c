package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/auth"
	"github.com/rentiva/rentiva/internal/rbac"
)

func newGate(t *testing.T, store auth.Store, policy auth.ScopePolicy) *auth.Gate {
	t.Helper()
	sm, _ := newSessionManager(t)
	carriers := auth.DefaultCarriers("", "")
	resolver := auth.NewResolver(carriers, sm, store, time.Second, nil)
	return auth.NewGate(resolver, policy, nil, nil)
}

func legacyRequest(t *testing.T, id, email string) *http.Request {
	t.Helper()
	req := newRequest(t)
	req.AddCookie(legacyCookie(id, email))
	return req
}

// Scenario: legacy cookie, staff with an explicit empty permission record.
func TestAuthenticateStaffWithEmptyPermissionRecord(t *testing.T) {
	store := &stubStore{users: map[string]*auth.User{"u1": activeStaff()}}
	gate := newGate(t, store, auth.ScopePolicy{AllowUnscoped: true})

	authCtx, failure := gate.Authenticate(legacyRequest(t, "u1", "a@b.com"), auth.Requirement{MinRole: rbac.RoleStaff})
	require.Nil(t, failure)
	require.NotNil(t, authCtx.FranchiseID)
	assert.Equal(t, "f1", *authCtx.FranchiseID)
	assert.False(t, authCtx.IsSuperAdmin)
	assert.False(t, authCtx.IsReadOnly)
	// Empty stored map is explicit intent: everything revoked.
	for _, key := range rbac.Modules() {
		assert.False(t, authCtx.Principal.Permissions[key], "module %q", key)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	user := activeStaff()
	user.IsActive = false
	gate := newGate(t, &stubStore{users: map[string]*auth.User{"u1": user}}, auth.ScopePolicy{AllowUnscoped: true})

	_, failure := gate.Authenticate(legacyRequest(t, "u1", "a@b.com"), auth.Requirement{MinRole: rbac.RoleStaff})
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindAuthenticationFailed, failure.Kind)
	assert.Equal(t, http.StatusUnauthorized, failure.HTTPStatus)
}

func TestAuthenticateMissingPermission(t *testing.T) {
	user := &auth.User{
		ID: "u3", Email: "admin@b.com", Role: "franchise_admin",
		FranchiseID: strptr("f1"), IsActive: true,
		Permissions: map[string]bool{rbac.ModuleStaff: false},
	}
	gate := newGate(t, &stubStore{users: map[string]*auth.User{"u3": user}}, auth.ScopePolicy{AllowUnscoped: true})

	_, failure := gate.Authenticate(legacyRequest(t, "u3", "admin@b.com"), auth.Requirement{
		MinRole:    rbac.RoleStaff,
		Permission: rbac.ModuleStaff,
	})
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindMissingPermission, failure.Kind)
	assert.Equal(t, http.StatusForbidden, failure.HTTPStatus)
}

func TestAuthenticateCrossTenantTarget(t *testing.T) {
	user := activeStaff()
	user.Permissions = nil // role defaults grant bookings
	gate := newGate(t, &stubStore{users: map[string]*auth.User{"u1": user}}, auth.ScopePolicy{AllowUnscoped: true})

	_, failure := gate.Authenticate(legacyRequest(t, "u1", "a@b.com"), auth.Requirement{
		MinRole: rbac.RoleStaff,
		Target:  &auth.Target{FranchiseID: strptr("f2")},
	})
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindCrossTenant, failure.Kind)
	assert.Equal(t, http.StatusForbidden, failure.HTTPStatus)
}

func TestAuthenticateSuperAdminUnrestrictedScope(t *testing.T) {
	user := &auth.User{ID: "root", Email: "root@b.com", Role: "super_admin", IsActive: true}
	gate := newGate(t, &stubStore{users: map[string]*auth.User{"root": user}}, auth.ScopePolicy{AllowUnscoped: false})

	authCtx, failure := gate.Authenticate(legacyRequest(t, "root", "root@b.com"), auth.Requirement{
		Target: &auth.Target{FranchiseID: strptr("f2")},
	})
	require.Nil(t, failure)
	assert.True(t, authCtx.IsSuperAdmin)
	assert.Nil(t, authCtx.FranchiseID, "super admin data filter must be unrestricted")
}

func TestAuthenticateIdempotent(t *testing.T) {
	store := &stubStore{users: map[string]*auth.User{"u1": activeStaff()}}
	gate := newGate(t, store, auth.ScopePolicy{AllowUnscoped: true})
	req := legacyRequest(t, "u1", "a@b.com")
	requirement := auth.Requirement{MinRole: rbac.RoleStaff}

	first, failure1 := gate.Authenticate(req, requirement)
	second, failure2 := gate.Authenticate(req, requirement)
	require.Nil(t, failure1)
	require.Nil(t, failure2)
	assert.Equal(t, first, second)
}

func TestAuthenticateUnknownStoredRoleFallsToReadonly(t *testing.T) {
	user := &auth.User{ID: "u9", Email: "x@b.com", Role: "owner", FranchiseID: strptr("f1"), IsActive: true}
	gate := newGate(t, &stubStore{users: map[string]*auth.User{"u9": user}}, auth.ScopePolicy{AllowUnscoped: true})

	// Resolves as readonly: fails a staff requirement...
	_, failure := gate.Authenticate(legacyRequest(t, "u9", "x@b.com"), auth.Requirement{MinRole: rbac.RoleStaff})
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindInsufficientRole, failure.Kind)

	// ...but still authenticates at readonly with readonly defaults.
	authCtx, failure := gate.Authenticate(legacyRequest(t, "u9", "x@b.com"), auth.Requirement{MinRole: rbac.RoleReadonly})
	require.Nil(t, failure)
	assert.True(t, authCtx.IsReadOnly)
	assert.True(t, authCtx.Principal.Permissions[rbac.ModuleDashboard])
	assert.False(t, authCtx.Principal.Permissions[rbac.ModuleBookings])
}

func TestAuthenticateNoSession(t *testing.T) {
	gate := newGate(t, &stubStore{}, auth.ScopePolicy{AllowUnscoped: true})
	_, failure := gate.Authenticate(newRequest(t), auth.Requirement{})
	require.NotNil(t, failure)
	assert.Equal(t, auth.KindNoSession, failure.Kind)
	assert.Equal(t, http.StatusUnauthorized, failure.HTTPStatus)
}
