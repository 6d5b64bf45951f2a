package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/auth"
)

// AuthMiddleware guards console routes behind a signed-in workspace
type AuthMiddleware struct {
	now func() time.Time
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(now func() time.Time) *AuthMiddleware {
	if now == nil {
		now = time.Now
	}
	return &AuthMiddleware{now: now}
}

// SessionRequired rejects requests whose workspace has no signed-in user. A
// workspace holding a live upstream session but no user yet is restored from /api/me.
func (m *AuthMiddleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := CurrentWorkspace(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeNotAuthenticated, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if token := ws.Session.Tokens().Token(); token != "" {
			if err := auth.CheckUsable(token, m.now()); err != nil {
				ws.Session.Clear()
				HandleAPIError(c, &apperrors.Error{Kind: apperrors.KindValidation, Message: "Session expired, please sign in again", Err: err})
				return
			}
		}

		if ws.Session.Authenticated(m.now()) {
			c.Next()
			return
		}

		if _, err := ws.Session.Load(c.Request.Context(), ws.API.Me); err != nil {
			HandleAPIError(c, &apperrors.Error{Kind: apperrors.KindValidation, Message: "Authentication required", Err: apperrors.ErrNotAuthenticated})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects signed-in users without an admin role
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := CurrentWorkspace(c)
		if ok {
			if u, signedIn := ws.Session.User(); signedIn && u.Role.IsAdmin() {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
		resp := dto.NewErrorResponse(errorDetail)
		resp.Notices = Notices(c)
		c.AbortWithStatusJSON(http.StatusForbidden, resp)
	}
}
