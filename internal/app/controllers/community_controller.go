package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/middleware"
	"github.com/yigit/communityadmin/internal/pkg/helpers"
)

// CommunityController handles the communities page, its modals and invites
type CommunityController struct {
	pageSize int
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(pageSize int) *CommunityController {
	return &CommunityController{pageSize: pageSize}
}

// GetAllCommunities loads the grid and returns one page of rows with the dashboard totals.
// A failed load yields an empty grid and an error notification.
// @Summary List communities
// @Tags communities
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.StructuredResponse{data=pages.CommunityListing}
// @Router /console/communities [get]
func (c *CommunityController) GetAllCommunities(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	_ = ws.Communities.Mount(ctx.Request.Context())
	page, size := helpers.ParsePaginationParams(ctx, c.pageSize)
	respond(ctx, http.StatusOK, ws.Communities.Listing(page, size), "")
}

// RefreshCommunities reloads the grid
// @Router /console/communities/refresh [post]
func (c *CommunityController) RefreshCommunities(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	_ = ws.Communities.Refresh(ctx.Request.Context())
	page, size := helpers.ParsePaginationParams(ctx, c.pageSize)
	respond(ctx, http.StatusOK, ws.Communities.Listing(page, size), "")
}

// CreateCommunity creates a community from a multipart form with an optional photo
// @Summary Create community
// @Tags communities
// @Accept multipart/form-data
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param photo formData file false "Cover photo"
// @Success 201 {object} dto.StructuredResponse{data=models.Community}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Form is already being submitted"
// @Router /console/communities [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	in, ok := bindCommunityInput(ctx)
	if !ok {
		return
	}

	created, err := ws.Communities.Create.Create(ctx.Request.Context(), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, created, "Community created")
}

// UpdateCommunity edits a community. The photo and the text are sent separately;
// unchanged text is not sent.
// @Router /console/communities/{id} [put]
func (c *CommunityController) UpdateCommunity(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	in, ok := bindCommunityInput(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	if err := ws.Communities.Edit.Edit(ctx.Request.Context(), id, in); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	community, _ := ws.Communities.Store.Find(id)
	respond(ctx, http.StatusOK, community, "")
}

// DeleteCommunity removes a community
// @Router /console/communities/{id} [delete]
func (c *CommunityController) DeleteCommunity(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	if err := ws.Communities.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Community deleted")
}

// GetInvite opens the invite dialog and returns the community's invite link,
// creating the invite when it has none
// @Router /console/communities/{id}/invite [get]
func (c *CommunityController) GetInvite(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	view, err := ws.Communities.Invite.Open(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "")
}

// SendInvite emails an invite to the community
// @Router /console/communities/{id}/invite/send [post]
func (c *CommunityController) SendInvite(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var req dto.SendInviteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	req.CommunityID = ctx.Param("id")

	if err := ws.Communities.Invite.Send(ctx.Request.Context(), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Invitation sent")
}

func bindCommunityInput(ctx *gin.Context) (forms.CommunityInput, bool) {
	var in forms.CommunityInput
	if !middleware.BindForm(ctx, &in) {
		return in, false
	}
	photo, err := formFile(ctx, "photo")
	if err != nil {
		badUpload(ctx, err)
		return in, false
	}
	in.Photo = photo
	return in, true
}
