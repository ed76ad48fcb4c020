package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFFieldName is the hidden form field carrying the token.
const CSRFFieldName = "csrf_token"

// CSRF protects every unsafe request with a token bound to a cookie signed with key. When secure is
// false requests are accepted over plain HTTP.
func CSRF(key []byte, secure bool, onFailure http.Handler) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFFieldName),
		csrf.CookieName("parkspot_csrf"),
	}
	if onFailure != nil {
		opts = append(opts, csrf.ErrorHandler(onFailure))
	}
	protect := csrf.Protect(key, opts...)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
