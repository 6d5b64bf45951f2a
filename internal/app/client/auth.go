package client

import (
	"context"
	"fmt"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

// AuthAPI wraps /auth
type AuthAPI struct {
	c *Client
}

// NewAuthAPI creates the auth client
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login signs in and stores the returned bearer token, if any
func (a *AuthAPI) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := a.c.Post(ctx, "/auth/login", req, &out); err != nil {
		return out, err
	}
	if token := out.BearerToken(); token != "" {
		if err := a.c.Tokens().SetToken(token); err != nil {
			return out, fmt.Errorf("storing token: %w", err)
		}
	}
	return out, nil
}

// Logout ends the session and forgets the token even when the call fails
func (a *AuthAPI) Logout(ctx context.Context) error {
	err := a.c.Post(ctx, "/auth/login/logout", nil, nil)
	if clearErr := a.c.Tokens().Clear(); clearErr != nil && err == nil {
		err = fmt.Errorf("clearing token: %w", clearErr)
	}
	return err
}

// Signup creates an admin account through the general signup endpoint
func (a *AuthAPI) Signup(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error) {
	req.Role = models.RoleAdmin
	return a.signup(ctx, "/auth/signup", req)
}

// SignupSuperAdmin creates the one-time initial super admin
func (a *AuthAPI) SignupSuperAdmin(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error) {
	req.Role = ""
	return a.signup(ctx, "/auth/signup/super-admin", req)
}

// SignupAdmin creates an additional admin; requires an admin session
func (a *AuthAPI) SignupAdmin(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error) {
	req.Role = ""
	return a.signup(ctx, "/auth/signup/admin", req)
}

func (a *AuthAPI) signup(ctx context.Context, path string, req dto.SignupRequest) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := a.c.Post(ctx, path, req, &out); err != nil {
		return out, err
	}
	if token := out.BearerToken(); token != "" {
		if err := a.c.Tokens().SetToken(token); err != nil {
			return out, fmt.Errorf("storing token: %w", err)
		}
	}
	return out, nil
}
