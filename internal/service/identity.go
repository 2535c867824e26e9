package service

import "context"

type identityKey struct{}

// WithIdentity stores the authenticated email in ctx.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey{}, email)
}

// IdentityFrom returns the authenticated email stored by WithIdentity.
func IdentityFrom(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey{}).(string)
	return email, ok && email != ""
}
