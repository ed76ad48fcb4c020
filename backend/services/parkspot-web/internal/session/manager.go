package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
)

// ErrNoToken is returned when sign-in succeeds without issuing a token.
var ErrNoToken = errors.New("session: sign-in returned no token")

// SessionEndedMessage is flashed after the API rejected the stored token.
const SessionEndedMessage = "Your session has ended. Please sign in again."

// Authenticator is the subset of the auth API the manager needs.
type Authenticator interface {
	SignIn(ctx context.Context, username, password string) (clients.SignInResult, error)
	CurrentUser(ctx context.Context) (models.User, error)
	CSRFToken(ctx context.Context) (string, error)
}

// Manager is the only writer of the identity keys.
type Manager struct {
	store   Store
	flashes *Flashes
	auth    Authenticator
	logger  *zap.Logger
}

// NewManager returns identity manager.
func NewManager(store Store, flashes *Flashes, auth Authenticator, logger *zap.Logger) *Manager {
	return &Manager{store: store, flashes: flashes, auth: auth, logger: logger}
}

// Identity loads the identity of sid.
func (m *Manager) Identity(ctx context.Context, sid string) (Identity, error) {
	fields, err := m.store.Load(ctx, sid)
	if err != nil {
		return Identity{}, fmt.Errorf("session: load: %w", err)
	}
	return identityFromFields(fields), nil
}

// Login signs in and persists the identity. Nothing is written unless every required step
// succeeded; a missing CSRF token is logged and tolerated.
func (m *Manager) Login(ctx context.Context, sid, username, password string) (Identity, error) {
	result, err := m.auth.SignIn(ctx, username, password)
	if err != nil {
		return Identity{}, err
	}
	if result.Token == "" {
		return Identity{}, ErrNoToken
	}

	admin := models.HasAdminRole(result.Roles)
	if len(result.Roles) == 0 {
		admin = hasAdminClaim(result.Token)
	}

	authed := clients.WithCredentials(ctx, clients.Credentials{Token: result.Token})
	user, err := m.auth.CurrentUser(authed)
	if err != nil {
		return Identity{}, fmt.Errorf("session: load user: %w", err)
	}
	if user.Username == "" {
		user.Username = result.Username
	}

	csrfToken, err := m.auth.CSRFToken(authed)
	if err != nil {
		m.logger.Warn("csrf token fetch failed", zap.Error(err))
	}

	id := Identity{
		Token:     result.Token,
		User:      &user,
		CSRFToken: csrfToken,
		IsAdmin:   admin || user.IsAdmin(),
	}
	fields, err := id.fields()
	if err != nil {
		return Identity{}, fmt.Errorf("session: encode identity: %w", err)
	}
	if err := m.store.Save(ctx, sid, fields); err != nil {
		return Identity{}, fmt.Errorf("session: save: %w", err)
	}
	return id, nil
}

// Logout clears the identity keys of sid.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	return m.store.Clear(ctx, sid, identityKeys...)
}

// OnUnauthorized implements clients.UnauthorizedHandler. It clears the identity of the session in
// ctx and queues a notice when a token had been stored.
func (m *Manager) OnUnauthorized(ctx context.Context) {
	sid, ok := IDFromContext(ctx)
	if !ok {
		return
	}
	// The request context may already be cancelled by the time the API answered.
	ctx = context.WithoutCancel(ctx)

	hadToken := IdentityFromContext(ctx).LoggedIn()
	if !hadToken {
		if fields, err := m.store.Load(ctx, sid); err == nil {
			hadToken = fields[KeyToken] != ""
		}
	}

	if err := m.store.Clear(ctx, sid, identityKeys...); err != nil {
		m.logger.Error("clear session after 401 failed", zap.Error(err))
		return
	}
	if hadToken && m.flashes != nil {
		if err := m.flashes.Add(ctx, sid, Flash{Kind: FlashInfo, Text: SessionEndedMessage}); err != nil {
			m.logger.Warn("queue session ended notice failed", zap.Error(err))
		}
	}
	m.logger.Info("session cleared after unauthorized response")
}

// hasAdminClaim reads the roles claim of token without verifying it.
func hasAdminClaim(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	switch roles := claims["roles"].(type) {
	case string:
		return models.HasAdminRole(strings.Split(roles, ","))
	case []interface{}:
		list := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok {
				list = append(list, s)
			}
		}
		return models.HasAdminRole(list)
	}
	return false
}
