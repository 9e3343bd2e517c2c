package auth

import "github.com/rentiva/rentiva/internal/rbac"

// ScopePolicy configures the one deliberately configurable ambiguity in
// tenant isolation: whether records with no franchise id (unscoped legacy
// data) are reachable by any authenticated principal.
type ScopePolicy struct {
	AllowUnscoped bool
}

// Authorize applies the ordered scope decision to an already resolved
// principal. It returns nil when access is allowed.
//
// Super admins bypass tenant matching entirely. Every other role must carry
// a franchise id; an assignment gap is an account provisioning fault and is
// treated as an authentication failure, not a scope denial.
func Authorize(p *Principal, req Requirement, policy ScopePolicy) *Failure {
	if !p.IsActive {
		return failAuthentication("account is deactivated")
	}
	if req.MinRole != "" && !p.Role.AtLeast(req.MinRole) {
		return failInsufficientRole()
	}
	if req.Permission != "" && !p.Permissions.Allows(req.Permission) {
		return failMissingPermission(req.Permission)
	}
	if p.Role == rbac.RoleSuperAdmin {
		return nil
	}
	if p.FranchiseID == nil {
		return failAuthentication("account has no franchise assignment")
	}
	if req.Target != nil {
		if req.Target.FranchiseID == nil {
			if !policy.AllowUnscoped {
				return failCrossTenant()
			}
			return nil
		}
		if *req.Target.FranchiseID != *p.FranchiseID {
			return failCrossTenant()
		}
	}
	return nil
}

// EffectiveScope returns the franchise filter a handler must apply to its
// queries: nil (unrestricted) for super admins, the principal's own
// franchise for everyone else.
func EffectiveScope(p *Principal) *string {
	if p.Role == rbac.RoleSuperAdmin {
		return nil
	}
	return p.FranchiseID
}
