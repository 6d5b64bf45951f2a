package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/pages"
	"github.com/yigit/communityadmin/internal/pkg/notify"
	"github.com/yigit/communityadmin/internal/workspace"
)

const workspaceKey = "workspace"

// WorkspaceOptions configures the session cookie
type WorkspaceOptions struct {
	Cookie string
	Secure bool
	MaxAge int
}

// Workspace attaches the caller's workspace, creating one and setting the
// session cookie when the cookie is missing or no longer known
func Workspace(reg *workspace.Registry, opts WorkspaceOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(opts.Cookie)
		ws, created, err := reg.Resolve(id)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Could not start console session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.Cookie, ws.ID, opts.MaxAge, "/", "", opts.Secure, true)
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// CurrentWorkspace returns the workspace attached by Workspace
func CurrentWorkspace(c *gin.Context) (*pages.Workspace, bool) {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil, false
	}
	ws, ok := v.(*pages.Workspace)
	return ws, ok
}

// Notices drains the pending notifications of the caller's workspace
func Notices(c *gin.Context) []notify.Notice {
	ws, ok := CurrentWorkspace(c)
	if !ok {
		return nil
	}
	return ws.Toaster.Drain()
}
