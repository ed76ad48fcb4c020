package clients

import "context"

type credentialsKey struct{}

// Credentials are attached to every outbound call made within a request.
type Credentials struct {
	Token     string
	CSRFToken string
}

// WithCredentials returns ctx carrying creds.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFromContext extracts credentials set by WithCredentials.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// UnauthorizedHandler is notified whenever the API answers 401, before the error is returned.
type UnauthorizedHandler interface {
	OnUnauthorized(ctx context.Context)
}

// UnauthorizedFunc adapts a function to UnauthorizedHandler.
type UnauthorizedFunc func(ctx context.Context)

// OnUnauthorized calls f.
func (f UnauthorizedFunc) OnUnauthorized(ctx context.Context) {
	f(ctx)
}

// Observer receives one sample per upstream call.
type Observer interface {
	ObserveUpstream(endpoint string, status int, seconds float64)
}
