package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/session"
)

const (
	msgCredentialsRequired = "Username and password are required"
	msgInvalidCredentials  = "Invalid username or password"
	msgLoginFailed         = "Login failed. Please try again."
	msgSignupRequired      = "Username, email and password are required"
	msgSignupFailed        = "Registration failed. Please try again."
)

// AuthHandlers serves sign-in, sign-up and sign-out.
type AuthHandlers struct {
	*Base
	manager *session.Manager
	auth    *clients.AuthClient
}

// NewAuthHandlers builds handler.
func NewAuthHandlers(base *Base, manager *session.Manager, auth *clients.AuthClient) *AuthHandlers {
	return &AuthHandlers{Base: base, manager: manager, auth: auth}
}

type loginData struct {
	Username string
	Error    string
}

type signupData struct {
	Username string
	Email    string
	Error    string
}

// LoginForm renders the sign-in page.
func (h *AuthHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.IdentityFromContext(r.Context()).LoggedIn() {
		redirect(w, r, "/")
		return
	}
	h.render(w, r, http.StatusOK, "login", "Sign in", loginData{})
}

// Login signs the session in.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", loginData{Username: username, Error: msgCredentialsRequired})
		return
	}

	ctx := r.Context()
	if _, err := h.manager.Login(ctx, sessionID(ctx), username, password); err != nil {
		h.logger.Info("sign in failed", zap.String("username", username), zap.Error(err))
		h.render(w, r, http.StatusUnauthorized, "login", "Sign in", loginData{Username: username, Error: loginMessage(err)})
		return
	}

	h.flash(ctx, session.FlashSuccess, "Login successful")
	redirect(w, r, "/")
}

func loginMessage(err error) string {
	if errors.Is(err, clients.ErrUnauthorized) {
		return msgInvalidCredentials
	}
	var statusErr *clients.StatusError
	if errors.As(err, &statusErr) && (statusErr.Status == http.StatusBadRequest || statusErr.Status == http.StatusForbidden) {
		return msgInvalidCredentials
	}
	return clients.UserMessage(err, msgLoginFailed)
}

// SignupForm renders the registration page.
func (h *AuthHandlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup", "Sign up", signupData{})
}

// Signup registers an account and sends the user to sign in.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	data := signupData{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}
	password := r.PostFormValue("password")
	if data.Username == "" || data.Email == "" || password == "" {
		data.Error = msgSignupRequired
		h.render(w, r, http.StatusUnprocessableEntity, "signup", "Sign up", data)
		return
	}

	ctx := r.Context()
	err := h.auth.SignUp(ctx, clients.SignUpRequest{
		Username: data.Username,
		Email:    data.Email,
		Password: password,
		Roles:    []string{"user"},
	})
	if err != nil {
		msg, handled := h.apiError(w, r, err, msgSignupFailed)
		if handled {
			return
		}
		data.Error = msg
		h.render(w, r, http.StatusOK, "signup", "Sign up", data)
		return
	}

	h.flash(ctx, session.FlashSuccess, "Registration successful. Please sign in.")
	redirect(w, r, "/login")
}

// Logout clears the identity.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.manager.Logout(ctx, sessionID(ctx)); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
	}
	h.flash(ctx, session.FlashInfo, "You have been signed out")
	redirect(w, r, "/login")
}
