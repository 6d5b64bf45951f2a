package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/views"
	"github.com/yigit/communityadmin/internal/middleware"
)

// EventController handles the events page
type EventController struct{}

// NewEventController creates a new EventController
func NewEventController() *EventController {
	return &EventController{}
}

// GetEvents loads the events and returns the cards of the requested tab
// @Summary List events
// @Tags events
// @Param tab query string false "new or past" default(new)
// @Success 200 {object} dto.StructuredResponse{data=[]dto.EventCard}
// @Router /console/events [get]
func (c *EventController) GetEvents(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	_ = ws.Events.Mount(ctx.Request.Context())
	respond(ctx, http.StatusOK, ws.Events.Cards(views.ParseTab(ctx.Query("tab"))), "")
}

// CreateEvent creates an event from a multipart form with an optional image.
// The time window is checked before anything is sent.
// @Summary Create event
// @Tags events
// @Accept multipart/form-data
// @Failure 400 {object} dto.ErrorResponse "End time must be after start time"
// @Router /console/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	in, ok := bindEventInput(ctx)
	if !ok {
		return
	}

	created, err := ws.Events.Create.Create(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, created, "Event created")
}

// UpdateEvent edits an event
// @Router /console/events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	in, ok := bindEventInput(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	if err := ws.Events.Edit.Edit(ctx.Request.Context(), id, in); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	event, _ := ws.Events.Store.Find(id)
	respond(ctx, http.StatusOK, event, "")
}

// DeleteEvent removes an event
// @Router /console/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	if err := ws.Events.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Event deleted")
}

// Enroll enrolls the signed-in user
// @Router /console/events/{id}/enroll [post]
func (c *EventController) Enroll(ctx *gin.Context) {
	c.setEnrolled(ctx, true)
}

// Unenroll withdraws the signed-in user
// @Router /console/events/{id}/enroll [delete]
func (c *EventController) Unenroll(ctx *gin.Context) {
	c.setEnrolled(ctx, false)
}

func (c *EventController) setEnrolled(ctx *gin.Context, enrolled bool) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	id := ctx.Param("id")
	if err := ws.Events.SetEnrolled(ctx.Request.Context(), id, enrolled); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	event, _ := ws.Events.Store.Find(id)
	respond(ctx, http.StatusOK, event, "")
}

// GetStats returns the admin event statistics
// @Router /console/events/stats [get]
func (c *EventController) GetStats(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	stats, err := ws.Events.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats, "")
}

func bindEventInput(ctx *gin.Context) (forms.EventInput, bool) {
	var in forms.EventInput
	if !middleware.BindForm(ctx, &in) {
		return in, false
	}
	image, err := formFile(ctx, "image")
	if err != nil {
		badUpload(ctx, err)
		return in, false
	}
	in.Image = image
	return in, true
}
