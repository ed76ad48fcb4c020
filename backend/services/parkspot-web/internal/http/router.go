package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkspot/backend/services/parkspot-web/internal/http/handlers"
	"parkspot/backend/services/parkspot-web/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	PublicHandlers   *handlers.PublicHandlers
	AuthHandlers     *handlers.AuthHandlers
	SpotsHandlers    *handlers.SpotsHandlers
	BookingHandlers  *handlers.BookingHandlers
	PaymentHandlers  *handlers.PaymentHandlers
	BookingsHandlers *handlers.BookingsHandlers
	AdminHandlers    *handlers.AdminHandlers
	HealthHandler    http.HandlerFunc
	MetricsHandler   http.Handler
	StaticHandler    http.Handler
}

// RouterMiddleware are applied around the page routes. Session must run before CSRF so a rejected
// form still renders with the visitor's identity.
type RouterMiddleware struct {
	Metrics func(http.Handler) http.Handler
	Session func(http.Handler) http.Handler
	CSRF    func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, mw RouterMiddleware) http.Handler {
	r := mux.NewRouter()
	if mw.Metrics != nil {
		r.Use(mw.Metrics)
	}

	r.Handle("/health", deps.HealthHandler).Methods(http.MethodGet)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods(http.MethodGet)
	}
	if deps.StaticHandler != nil {
		r.PathPrefix("/static/").Handler(deps.StaticHandler).Methods(http.MethodGet)
	}

	var page []func(http.Handler) http.Handler
	for _, m := range []func(http.Handler) http.Handler{mw.Session, mw.CSRF} {
		if m != nil {
			page = append(page, m)
		}
	}

	pages := r.PathPrefix("/").Subrouter()
	for _, m := range page {
		pages.Use(mux.MiddlewareFunc(m))
	}

	public := deps.PublicHandlers
	pages.HandleFunc("/", public.Home).Methods(http.MethodGet)
	pages.HandleFunc("/about", public.About).Methods(http.MethodGet)
	pages.HandleFunc("/contact", public.Contact).Methods(http.MethodGet)
	pages.HandleFunc("/access-denied", public.AccessDenied).Methods(http.MethodGet)

	auth := deps.AuthHandlers
	pages.HandleFunc("/login", auth.LoginForm).Methods(http.MethodGet)
	pages.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	pages.HandleFunc("/signup", auth.SignupForm).Methods(http.MethodGet)
	pages.HandleFunc("/signup", auth.Signup).Methods(http.MethodPost)
	pages.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)

	pages.HandleFunc("/available-spots", deps.SpotsHandlers.Available).Methods(http.MethodGet)

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, middleware.RequireAuth)
	}

	pages.Handle("/available-spots/book", authenticated(deps.SpotsHandlers.Book)).Methods(http.MethodPost)
	pages.Handle("/book-parking", authenticated(deps.BookingHandlers.Form)).Methods(http.MethodGet)
	pages.Handle("/book-parking", authenticated(deps.BookingHandlers.Submit)).Methods(http.MethodPost)

	pay := deps.PaymentHandlers
	pages.Handle("/make-payment", authenticated(pay.Show)).Methods(http.MethodGet)
	pages.Handle("/make-payment/card", authenticated(pay.Card)).Methods(http.MethodPost)
	pages.Handle("/make-payment/mpesa", authenticated(pay.StartMobileMoney)).Methods(http.MethodPost)
	pages.Handle("/mpesa-checkout", authenticated(pay.MobileMoneyForm)).Methods(http.MethodGet)
	pages.Handle("/mpesa-checkout", authenticated(pay.MobileMoney)).Methods(http.MethodPost)
	pages.Handle("/payment-success", authenticated(pay.Success)).Methods(http.MethodGet)

	bookings := deps.BookingsHandlers
	pages.Handle("/my-bookings", authenticated(bookings.Mine)).Methods(http.MethodGet)
	pages.Handle("/my-bookings/exit/{id:[0-9]+}", authenticated(bookings.Exit)).Methods(http.MethodPost)
	pages.Handle("/my-fines", authenticated(bookings.Fines)).Methods(http.MethodGet)
	pages.Handle("/my-fines/{id:[0-9]+}/pay", authenticated(bookings.PayFine)).Methods(http.MethodPost)
	pages.Handle("/bookings/{id:[0-9]+}", authenticated(bookings.Details)).Methods(http.MethodGet)
	pages.Handle("/bookings/{id:[0-9]+}/pay", authenticated(bookings.Pay)).Methods(http.MethodPost)

	admin := pages.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/dashboard", deps.AdminHandlers.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", deps.AdminHandlers.Bookings).Methods(http.MethodGet)
	admin.HandleFunc("/parking-spots", deps.AdminHandlers.Spots).Methods(http.MethodGet)
	admin.HandleFunc("/parking-spots", deps.AdminHandlers.CreateSpot).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", deps.AdminHandlers.AuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", deps.AdminHandlers.AuditLog).Methods(http.MethodGet)

	notFound := middleware.Chain(http.HandlerFunc(public.NotFound), page...)
	r.NotFoundHandler = notFound
	pages.NotFoundHandler = notFound

	return r
}
