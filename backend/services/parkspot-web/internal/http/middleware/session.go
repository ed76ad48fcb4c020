package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/session"
)

// IdentityLoader resolves the identity stored for a session id.
type IdentityLoader interface {
	Identity(ctx context.Context, sid string) (session.Identity, error)
}

// Session makes sure the request has a session id, loads its identity and attaches the
// credentials every API call of the request will carry.
func Session(cookies session.Cookies, loader IdentityLoader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sid, ok := cookies.ID(r)
			if !ok {
				sid = cookies.Issue(w)
			}

			identity, err := loader.Identity(ctx, sid)
			if err != nil {
				logger.Warn("load identity failed", zap.Error(err))
				identity = session.Identity{}
			}

			ctx = session.WithID(ctx, sid)
			ctx = session.WithIdentity(ctx, identity)
			ctx = clients.WithCredentials(ctx, clients.Credentials{
				Token:     identity.Token,
				CSRFToken: identity.CSRFToken,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.IdentityFromContext(r.Context()).LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin sends anonymous visitors to the login page and signed-in non-admins to the
// access denied page.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := session.IdentityFromContext(r.Context())
		switch {
		case !identity.LoggedIn():
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case !identity.Admin():
			http.Redirect(w, r, "/access-denied", http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
