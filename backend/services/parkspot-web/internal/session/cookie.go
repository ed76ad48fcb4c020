package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Cookies issues and reads the session id cookie.
type Cookies struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// ID returns the session id carried by r. Ids that are not uuids are ignored.
func (c Cookies) ID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Issue sets a fresh session id on w.
func (c Cookies) Issue(w http.ResponseWriter) string {
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
