package session

import "context"

type contextKey string

const (
	idKey       contextKey = "sessionID"
	identityKey contextKey = "identity"
)

// WithID stores the session id in ctx.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, idKey, sid)
}

// IDFromContext retrieves the session id.
func IDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(idKey).(string)
	return sid, ok && sid != ""
}

// WithIdentity stores the identity loaded for the request.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the request identity, anonymous when none was loaded.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
