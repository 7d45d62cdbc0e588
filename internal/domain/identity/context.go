package identity

import "context"

type contextKey struct{}

type bound struct {
	session *Session
	ctx     Context
}

// WithSession binds a session and its role context to ctx. A nil session
// binds the anonymous context.
func WithSession(ctx context.Context, session *Session, ic Context) context.Context {
	return context.WithValue(ctx, contextKey{}, bound{session: session, ctx: ic})
}

// FromContext returns the role context bound to ctx, or Anonymous.
func FromContext(ctx context.Context) Context {
	b, ok := ctx.Value(contextKey{}).(bound)
	if !ok {
		return Anonymous
	}
	return b.ctx
}

// SessionFromContext returns the session bound to ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	b, ok := ctx.Value(contextKey{}).(bound)
	if !ok {
		return nil
	}
	return b.session
}
