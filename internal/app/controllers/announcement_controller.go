package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/middleware"
	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// AnnouncementController handles the announcements page
type AnnouncementController struct{}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController() *AnnouncementController {
	return &AnnouncementController{}
}

// GetAnnouncements loads the announcements
// @Router /console/announcements [get]
func (c *AnnouncementController) GetAnnouncements(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	_ = ws.Announcements.Mount(ctx.Request.Context())
	respond(ctx, http.StatusOK, ws.Announcements.Store.Items(), "")
}

// CreateAnnouncement publishes an announcement and reloads the list
// @Router /console/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var req dto.AnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	created, err := ws.Announcements.Form.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, created, "Announcement published")
}

// DeleteAnnouncement removes an announcement
// @Router /console/announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	if err := ws.Announcements.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Announcement deleted")
}

// NotificationController hands the queued notifications to the browser shell
type NotificationController struct{}

// NewNotificationController creates a new NotificationController
func NewNotificationController() *NotificationController {
	return &NotificationController{}
}

// Drain returns and clears the pending notifications
// @Router /console/notifications [get]
func (c *NotificationController) Drain(ctx *gin.Context) {
	notices := middleware.Notices(ctx)
	if notices == nil {
		notices = []notify.Notice{}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(notices, ""))
}
