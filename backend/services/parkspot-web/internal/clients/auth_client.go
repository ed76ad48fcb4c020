package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// SignInResult is the token issued by the API.
type SignInResult struct {
	Token    string   `json:"jwtToken"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// SignUpRequest registers a user.
type SignUpRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"role,omitempty"`
}

// AuthClient covers authentication and identity endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(base *BaseClient) *AuthClient {
	return &AuthClient{base: base}
}

// SignIn exchanges credentials for a token.
func (c *AuthClient) SignIn(ctx context.Context, username, password string) (SignInResult, error) {
	var result SignInResult
	err := c.base.JSON(ctx, Request{
		Name:   "auth.signin",
		Method: http.MethodPost,
		Path:   "/auth/public/signin",
		Body:   map[string]string{"username": username, "password": password},
	}, &result)
	return result, err
}

// SignUp registers a new account.
func (c *AuthClient) SignUp(ctx context.Context, req SignUpRequest) error {
	body, err := c.base.Do(ctx, Request{
		Name:   "auth.signup",
		Method: http.MethodPost,
		Path:   "/auth/public/signup",
		Body:   req,
	})
	if err != nil {
		return err
	}
	var env Envelope[json.RawMessage]
	if json.Unmarshal(body, &env) == nil && env.Code != 0 {
		return env.Err("auth.signup")
	}
	return nil
}

// CurrentUser fetches the signed-in user.
func (c *AuthClient) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.base.JSON(ctx, Request{Name: "auth.user", Path: "/auth/user"}, &user)
	return user, err
}

// Username fetches the display name of the signed-in user. The endpoint answers with plain text
// or a JSON string.
func (c *AuthClient) Username(ctx context.Context) (string, error) {
	body, err := c.base.Do(ctx, Request{Name: "auth.username", Path: "/auth/username"})
	if err != nil {
		return "", err
	}
	body = bytes.TrimSpace(body)
	var name string
	if json.Unmarshal(body, &name) == nil {
		return name, nil
	}
	return strings.TrimSpace(string(body)), nil
}

// CSRFToken fetches the API's anti-forgery token.
func (c *AuthClient) CSRFToken(ctx context.Context) (string, error) {
	var payload struct {
		Token string `json:"token"`
	}
	err := c.base.JSON(ctx, Request{Name: "auth.csrf", Path: "/csrf-token"}, &payload)
	return payload.Token, err
}
