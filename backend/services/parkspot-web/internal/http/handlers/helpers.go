package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/views"
	"parkspot/backend/services/parkspot-web/internal/web"
)

const (
	msgUnexpected  = "An unexpected error occurred"
	msgFetchFailed = "Error fetching data"
	msgFormExpired = "This form has expired. Please go back and try again."
)

// Base carries what every page handler needs to answer a request.
type Base struct {
	renderer *web.Renderer
	flashes  *session.Flashes
	currency string
	logger   *zap.Logger
}

// NewBase returns shared handler state. currency is the display currency of amounts.
func NewBase(renderer *web.Renderer, flashes *session.Flashes, currency string, logger *zap.Logger) *Base {
	return &Base{renderer: renderer, flashes: flashes, currency: currency, logger: logger}
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	ctx := r.Context()
	page := web.Page{
		Title:     title,
		Identity:  session.IdentityFromContext(ctx),
		CSRFField: csrf.TemplateField(r),
		Currency:  b.currency,
		AdminArea: strings.HasPrefix(r.URL.Path, "/admin/"),
		Data:      data,
	}
	if sid, ok := session.IDFromContext(ctx); ok && b.flashes != nil {
		flash, err := b.flashes.Take(ctx, sid)
		if err != nil {
			b.logger.Warn("take flash failed", zap.Error(err))
		}
		page.Flash = flash
	}
	if err := b.renderer.Render(w, status, name, page); err != nil {
		b.logger.Error("render failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (b *Base) flash(ctx context.Context, kind, text string) {
	sid, ok := session.IDFromContext(ctx)
	if !ok || b.flashes == nil {
		return
	}
	if err := b.flashes.Add(ctx, sid, session.Flash{Kind: kind, Text: text}); err != nil {
		b.logger.Warn("queue flash failed", zap.Error(err))
	}
}

// apiError handles err returned by an API call. A 401 answers the request with a redirect to the
// login page and reports handled; otherwise the message to show is returned.
func (b *Base) apiError(w http.ResponseWriter, r *http.Request, err error, fallback string) (string, bool) {
	if errors.Is(err, clients.ErrUnauthorized) {
		redirect(w, r, "/login")
		return "", true
	}
	b.logger.Warn("api call failed", zap.String("path", r.URL.Path), zap.Error(err))
	return clients.UserMessage(err, fallback), false
}

// failPage renders the error page unless the failure was a 401.
func (b *Base) failPage(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	msg, handled := b.apiError(w, r, err, fallback)
	if handled {
		return
	}
	status := http.StatusBadGateway
	var statusErr *clients.StatusError
	if errors.As(err, &statusErr) && statusErr.NotFound() {
		status = http.StatusNotFound
	}
	b.render(w, r, status, "error", "Something went wrong", errorData{Message: msg})
}

// NotFound renders the not found page.
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusNotFound, "not_found", "Page not found", nil)
}

type errorData struct {
	Message string
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func sessionID(ctx context.Context) string {
	sid, _ := session.IDFromContext(ctx)
	return sid
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func formInt(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(name)), 10, 64)
	return v
}

func queryPage(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return page, true
}

func loadState[S any](ctx context.Context, b *Base, store *views.StateStore, view string, initial S) S {
	state := initial
	if _, err := store.Load(ctx, sessionID(ctx), view, &state); err != nil {
		b.logger.Warn("load view state failed", zap.String("view", view), zap.Error(err))
		return initial
	}
	return state
}

func saveState[S any](ctx context.Context, b *Base, store *views.StateStore, view string, state S) {
	if err := store.Save(ctx, sessionID(ctx), view, state); err != nil {
		b.logger.Warn("save view state failed", zap.String("view", view), zap.Error(err))
	}
}

// navigate applies the page query to list. A requested page moves the list; without one the
// current page is reloaded.
func navigate[T any](ctx context.Context, r *http.Request, list *views.List[T]) error {
	if page, ok := queryPage(r); ok && list.State.Loaded {
		_, err := list.GoTo(ctx, page)
		return err
	}
	return list.Load(ctx)
}

// navigateLocal is navigate for locally paged lists. Only a visit without a page, or the first
// one, fetches.
func navigateLocal[T any](ctx context.Context, r *http.Request, list *views.Local[T]) error {
	if page, ok := queryPage(r); ok && list.State.Loaded {
		list.GoTo(page)
		return nil
	}
	return list.Load(ctx)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
