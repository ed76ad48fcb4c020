package handlers

import "net/http"

// PublicHandlers serves the informational pages.
type PublicHandlers struct {
	*Base
}

// NewPublicHandlers builds handler.
func NewPublicHandlers(base *Base) *PublicHandlers {
	return &PublicHandlers{Base: base}
}

// Home renders the landing page.
func (h *PublicHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", "Smart parking", nil)
}

// About renders the about page.
func (h *PublicHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", "About", nil)
}

// Contact renders the contact page.
func (h *PublicHandlers) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact", "Contact", nil)
}

// AccessDenied is shown to signed-in users outside the admin role.
func (h *PublicHandlers) AccessDenied(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "access_denied", "Access denied", nil)
}

// FormExpired answers a request rejected by the CSRF check.
func (h *PublicHandlers) FormExpired(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "error", "Form expired", errorData{Message: msgFormExpired})
}
