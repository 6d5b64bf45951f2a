package dto

import "github.com/yigit/communityadmin/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" validate:"notblank"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// SignupRequest represents an admin account signup
type SignupRequest struct {
	Username string      `json:"username" validate:"notblank"`
	Password string      `json:"password" validate:"required,min=6"`
	Name     string      `json:"name" validate:"notblank,max=100"`
	Email    string      `json:"email" validate:"required,mail"`
	Role     models.Role `json:"role,omitempty"`
}

// SignupForm is the console body for signing up; SuperAdmin requests the one-time
// super-admin bootstrap first
type SignupForm struct {
	SignupRequest
	SuperAdmin bool `json:"superAdmin"`
}

// AuthResponse is what login and signup return
type AuthResponse struct {
	Token       string       `json:"token,omitempty"`
	AccessToken string       `json:"accessToken,omitempty"`
	User        *models.User `json:"user,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// BearerToken returns whichever token field the server filled
func (a AuthResponse) BearerToken() string {
	if a.Token != "" {
		return a.Token
	}
	return a.AccessToken
}

// UpdateMeRequest changes the signed-in user's email or password
type UpdateMeRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// SessionResponse describes the signed-in user for the console shell
type SessionResponse struct {
	User          *models.User `json:"user"`
	Authenticated bool         `json:"authenticated"`
	TokenExpiry   string       `json:"tokenExpiry,omitempty"`
}
