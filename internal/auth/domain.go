// Package auth resolves the caller of every request: who they are, their
// effective role and permissions, and the franchise scope their data access
// is confined to. Handlers consume it through Gate.Authenticate or the
// Require middleware and never inspect credentials themselves.
package auth

import (
	"net/http"

	"github.com/rentiva/rentiva/internal/rbac"
)

// User is the account record read from the store. Permissions is nil when
// no explicit permission record exists for the account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	FranchiseID  *string
	IsActive     bool
	Permissions  map[string]bool
}

// Franchise is the tenant record. It is fetched for display only and never
// consulted for authorization decisions.
type Franchise struct {
	ID   string
	Name string
}

// Principal is the resolved caller. It is built fresh per request from
// store data and immutable once constructed.
type Principal struct {
	ID          string
	Email       string
	Role        rbac.Role
	FranchiseID *string
	IsActive    bool
	Permissions rbac.PermissionMap
}

// Context is the gate's output handed to handlers. FranchiseID is the
// effective data filter: nil means unrestricted scope, which only a super
// admin ever receives.
type Context struct {
	Principal    Principal
	IsSuperAdmin bool
	IsReadOnly   bool
	FranchiseID  *string
}

// Target describes the tenant ownership of a specific record a handler is
// about to touch. A nil FranchiseID marks unscoped legacy data.
type Target struct {
	FranchiseID *string
}

// Requirement declares what a handler demands from the caller. The zero
// value requires only a valid authenticated session.
type Requirement struct {
	MinRole    rbac.Role
	Permission string
	Target     *Target
}

// ErrorKind classifies an authorization failure.
type ErrorKind string

const (
	KindNoSession            ErrorKind = "no_session"
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindInsufficientRole     ErrorKind = "insufficient_role"
	KindMissingPermission    ErrorKind = "missing_permission"
	KindCrossTenant          ErrorKind = "cross_tenant"
	KindStoreUnavailable     ErrorKind = "store_unavailable"
)

// Failure is a typed authorization failure returned as a value through the
// whole chain. HTTPStatus is the response status handlers should emit.
type Failure struct {
	Kind       ErrorKind
	HTTPStatus int
	Message    string
}

func failNoSession() *Failure {
	return &Failure{Kind: KindNoSession, HTTPStatus: http.StatusUnauthorized, Message: "no session credential present"}
}

func failAuthentication(message string) *Failure {
	return &Failure{Kind: KindAuthenticationFailed, HTTPStatus: http.StatusUnauthorized, Message: message}
}

func failInsufficientRole() *Failure {
	return &Failure{Kind: KindInsufficientRole, HTTPStatus: http.StatusForbidden, Message: "role does not meet the required level"}
}

func failMissingPermission(module string) *Failure {
	return &Failure{Kind: KindMissingPermission, HTTPStatus: http.StatusForbidden, Message: "missing permission for module " + module}
}

func failCrossTenant() *Failure {
	return &Failure{Kind: KindCrossTenant, HTTPStatus: http.StatusForbidden, Message: "resource belongs to another franchise"}
}

func failStoreUnavailable() *Failure {
	return &Failure{Kind: KindStoreUnavailable, HTTPStatus: http.StatusServiceUnavailable, Message: "credential store unavailable"}
}
