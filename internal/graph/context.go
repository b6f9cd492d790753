package graph

import (
	"context"

	"github.com/sirajyamin/blink-graphql/internal/rbac"
)

type ctxKey int

const principalKey ctxKey = iota

// WithPrincipal attaches the authenticated caller to the request context.
func WithPrincipal(ctx context.Context, p *rbac.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the caller, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *rbac.Principal {
	p, _ := ctx.Value(principalKey).(*rbac.Principal)
	return p
}
