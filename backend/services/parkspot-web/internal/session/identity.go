package session

import (
	"encoding/json"
	"strconv"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// Storage keys of the identity. They are always written and cleared together.
const (
	KeyToken = "JWT_TOKEN"
	KeyUser  = "USER"
	KeyCSRF  = "CSRF_TOKEN"
	KeyAdmin = "IS_ADMIN"
)

var identityKeys = []string{KeyToken, KeyUser, KeyCSRF, KeyAdmin}

// Reader is the read side of the identity used by pages and route guards.
type Reader interface {
	LoggedIn() bool
	Admin() bool
	CurrentUser() *models.User
	BearerToken() string
}

// Identity is the signed-in state of one browser session.
type Identity struct {
	Token     string
	User      *models.User
	CSRFToken string
	IsAdmin   bool
}

var _ Reader = Identity{}

// LoggedIn reports whether a token is present.
func (i Identity) LoggedIn() bool { return i.Token != "" }

// Admin reports the stored admin flag. It is false whenever no token is present.
func (i Identity) Admin() bool { return i.LoggedIn() && i.IsAdmin }

// CurrentUser returns the stored user or nil.
func (i Identity) CurrentUser() *models.User { return i.User }

// BearerToken returns the raw token.
func (i Identity) BearerToken() string { return i.Token }

// UserID returns the id of the stored user, zero when unknown.
func (i Identity) UserID() int64 {
	if i.User == nil {
		return 0
	}
	return i.User.ID
}

func (i Identity) fields() (map[string]string, error) {
	user, err := json.Marshal(i.User)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyToken: i.Token,
		KeyUser:  string(user),
		KeyCSRF:  i.CSRFToken,
		KeyAdmin: strconv.FormatBool(i.IsAdmin),
	}, nil
}

// identityFromFields decodes stored fields. A missing token yields an anonymous identity regardless
// of the other fields.
func identityFromFields(fields map[string]string) Identity {
	token := fields[KeyToken]
	if token == "" {
		return Identity{}
	}
	id := Identity{Token: token, CSRFToken: fields[KeyCSRF]}
	id.IsAdmin, _ = strconv.ParseBool(fields[KeyAdmin])
	if raw := fields[KeyUser]; raw != "" && raw != "null" {
		var user models.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			id.User = &user
		}
	}
	return id
}
