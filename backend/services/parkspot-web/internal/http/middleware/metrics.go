package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

const unmatchedRoute = "unmatched"

// HTTPObserver records served requests.
type HTTPObserver interface {
	ObserveHTTP(route, method string, status int, seconds float64)
}

// Metrics records each request under its route template. It must run inside the router so the
// matched route is known.
func Metrics(observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := unmatchedRoute
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m := httpsnoop.CaptureMetrics(next, w, r)
			observer.ObserveHTTP(route, r.Method, m.Code, m.Duration.Seconds())
		})
	}
}
