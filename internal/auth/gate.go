package auth

import (
	"log/slog"
	"net/http"

	"github.com/rentiva/rentiva/internal/rbac"
)

// DecisionObserver records the outcome of every gate decision, e.g. into
// prometheus counters.
type DecisionObserver interface {
	ObserveAuthDecision(outcome string)
}

// Gate is the single entry point handlers use to authenticate a request
// against a requirement. It is deterministic: no retries, no caching, every
// decision re-derived from the store.
type Gate struct {
	resolver *Resolver
	policy   ScopePolicy
	observer DecisionObserver
	logger   *slog.Logger
}

// NewGate constructs a Gate. observer may be nil.
func NewGate(resolver *Resolver, policy ScopePolicy, observer DecisionObserver, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{resolver: resolver, policy: policy, observer: observer, logger: logger}
}

// Authenticate resolves the session, derives the effective permission map,
// and applies the scope decision. Exactly one of the results is non-nil.
func (g *Gate) Authenticate(r *http.Request, req Requirement) (*Context, *Failure) {
	user, failure := g.resolver.Resolve(r.Context(), r)
	if failure != nil {
		return nil, g.observed(nil, failure)
	}

	role, known := rbac.ParseRole(user.Role)
	if !known {
		// Falls back to readonly inside ParseRole; never grants anything.
		g.logger.Warn("unrecognised stored role",
			slog.String("user_id", user.ID),
			slog.String("role", user.Role))
	}

	principal := Principal{
		ID:          user.ID,
		Email:       user.Email,
		Role:        role,
		FranchiseID: user.FranchiseID,
		IsActive:    user.IsActive,
		Permissions: rbac.Derive(role, user.Permissions),
	}

	if failure := Authorize(&principal, req, g.policy); failure != nil {
		return nil, g.observed(&principal, failure)
	}

	authCtx := &Context{
		Principal:    principal,
		IsSuperAdmin: role == rbac.RoleSuperAdmin,
		IsReadOnly:   role == rbac.RoleReadonly,
		FranchiseID:  EffectiveScope(&principal),
	}
	if g.observer != nil {
		g.observer.ObserveAuthDecision("allowed")
	}
	return authCtx, nil
}

// Policy exposes the configured unscoped-data policy, mainly for wiring
// checks and tests.
func (g *Gate) Policy() ScopePolicy {
	return g.policy
}

func (g *Gate) observed(p *Principal, failure *Failure) *Failure {
	if g.observer != nil {
		g.observer.ObserveAuthDecision(string(failure.Kind))
	}
	if failure.Kind == KindCrossTenant && p != nil {
		g.logger.Warn("cross-tenant access denied", slog.String("user_id", p.ID))
	}
	return failure
}
