package service

import (
	"context"
	"fmt"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/model"
)

// Auth wraps the login, registration and profile endpoints.
type Auth struct {
	client *api.Client
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (a *Auth) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	body := map[string]string{"username": username, "password": password}

	var resp TokenResponse
	if err := a.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns its first token.
func (a *Auth) Register(ctx context.Context, username, email, password string) (*TokenResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var resp TokenResponse
	if err := a.client.Post(ctx, "/auth/register", body, &resp); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &resp, nil
}

// Me returns the signed-in user's profile.
func (a *Auth) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := a.client.Get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &u, nil
}
