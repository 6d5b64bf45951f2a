package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/middleware"
)

// AuthController handles sign in, sign up, sign out and the signed-in profile
type AuthController struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuthController creates a new AuthController
func NewAuthController(logger zerolog.Logger) *AuthController {
	return &AuthController{logger: logger, now: time.Now}
}

// Login handles user login
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.StructuredResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse
// @Router /console/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := ws.Auth.Login(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user, "Signed in")
}

// Logout ends the session and drops the per-user pages
// @Summary Sign out
// @Tags auth
// @Router /console/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	if err := ws.SignOut(ctx.Request.Context()); err != nil {
		// the local session is already cleared
		c.logger.Warn().Err(err).Str("workspace", ws.ID).Msg("Upstream logout failed")
	}
	respond(ctx, http.StatusOK, nil, "Signed out")
}

// Signup creates an admin account and signs it in
// @Summary Sign up
// @Tags auth
// @Accept json
// @Param request body dto.SignupForm true "Account"
// @Router /console/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var form dto.SignupForm
	if !middleware.BindJSON(ctx, &form) {
		return
	}

	user, err := ws.Auth.Signup(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, user, "Account created")
}

// Me describes the signed-in user. A workspace with a live upstream session
// but no loaded user is restored quietly.
// @Router /console/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}

	resp := dto.SessionResponse{}
	user, signedIn := ws.Session.User()
	if !signedIn {
		if loaded, err := ws.Session.Load(ctx.Request.Context(), ws.API.Me); err == nil {
			user, signedIn = loaded, true
		}
	}
	if signedIn {
		resp.User = &user
		resp.Authenticated = ws.Session.Authenticated(c.now())
		if exp, ok := ws.Session.TokenExpiry(); ok {
			resp.TokenExpiry = exp.UTC().Format(time.RFC3339)
		}
	}
	respond(ctx, http.StatusOK, resp, "")
}

// UpdateMe changes the signed-in user's email or password
// @Router /console/me [put]
func (c *AuthController) UpdateMe(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var req dto.UpdateMeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := ws.Auth.UpdateProfile(ctx.Request.Context(), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	user, _ := ws.Session.User()
	respond(ctx, http.StatusOK, user, "")
}

// UploadPhoto replaces the profile photo
// @Router /console/me/photo [put]
func (c *AuthController) UploadPhoto(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	photo, err := formFile(ctx, "photo")
	if err != nil {
		badUpload(ctx, err)
		return
	}
	if photo == nil {
		badUpload(ctx, http.ErrMissingFile)
		return
	}
	if err := ws.Auth.UploadPhoto(ctx.Request.Context(), *photo); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	user, _ := ws.Session.User()
	respond(ctx, http.StatusOK, user, "")
}
