// ABOUTME: Authentication endpoints: login, registration, password change
// ABOUTME: Login and registration bypass the session checks since no token exists yet

package client

import (
	"context"
	"fmt"
	"net/http"
)

const (
	pathLogin          = "/api/auth/login"
	pathRegister       = "/api/auth/register"
	pathChangePassword = "/api/auth/change-password"
)

// AuthClient talks to /api/auth
type AuthClient struct {
	doer Doer
}

// Login calls POST /api/auth/login
func (a *AuthClient) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.doer.DoPublic(ctx, http.MethodPost, pathLogin, creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("invalid response from backend: missing token")
	}
	return &resp, nil
}

// Register calls POST /api/auth/register and returns the backend's message
func (a *AuthClient) Register(ctx context.Context, reg Registration) (string, error) {
	var msg string
	if err := a.doer.DoPublic(ctx, http.MethodPost, pathRegister, reg, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// ChangePassword calls POST /api/auth/change-password with the session token
func (a *AuthClient) ChangePassword(ctx context.Context, change PasswordChange) (string, error) {
	var msg string
	if err := a.doer.Do(ctx, http.MethodPost, pathChangePassword, change, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// PublicCompanies lists companies without a session, for the registration form
func (a *AuthClient) PublicCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := a.doer.DoPublic(ctx, http.MethodGet, PathCompanies, nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}
