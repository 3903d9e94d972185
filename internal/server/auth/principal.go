package auth

import (
	"context"
	"strings"
)

// Principal is the authenticated identity supplied by the identity provider.
// Accounts are keyed by Email; UserID is informational.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

// Authenticated reports whether the principal names an account.
func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.Email) != ""
}

type ctxKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
