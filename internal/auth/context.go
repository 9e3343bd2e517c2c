package auth

import "context"

type authContextKey struct{}

// ContextWith stores the resolved auth context for downstream handlers.
func ContextWith(ctx context.Context, authCtx *Context) context.Context {
	return context.WithValue(ctx, authContextKey{}, authCtx)
}

// FromContext extracts the auth context placed by the Require middleware.
// It returns nil when the request never passed the gate.
func FromContext(ctx context.Context) *Context {
	authCtx, _ := ctx.Value(authContextKey{}).(*Context)
	return authCtx
}
