// Package identity carries the verified caller identity through a request's
// context. The value is set once by the auth middleware and read by
// resolvers; it is never persisted.
package identity

import "context"

// Identity is the outcome of a successful token verification.
type Identity struct {
	Subject string
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx with the identity attached.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the verified identity from ctx. ok is false for
// anonymous (unauthenticated) requests.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
