package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/middleware"
)

// ModalRequest names a modal and, for dismissal, the clicked element's id
// chain from the target up to the document root
type ModalRequest struct {
	Modal  string   `json:"modal"`
	Target []string `json:"target"`
}

// ModalResponse reports a modal's state after the request
type ModalResponse struct {
	Modal     string           `json:"modal"`
	State     forms.ModalState `json:"state"`
	Dismissed bool             `json:"dismissed,omitempty"`
}

// ModalController opens, closes and dismisses the workspace's modal forms
type ModalController struct{}

// NewModalController creates a new ModalController
func NewModalController() *ModalController {
	return &ModalController{}
}

// Open opens a modal
// @Router /console/modals/{name}/open [post]
func (c *ModalController) Open(ctx *gin.Context) {
	modal, ok := c.resolve(ctx, nil)
	if !ok {
		return
	}
	modal.Open()
	respond(ctx, http.StatusOK, ModalResponse{Modal: modal.Name(), State: modal.State()}, "")
}

// Close closes a modal unless it is submitting
// @Router /console/modals/{name}/close [post]
func (c *ModalController) Close(ctx *gin.Context) {
	modal, ok := c.resolve(ctx, nil)
	if !ok {
		return
	}
	closed := modal.Close()
	respond(ctx, http.StatusOK, ModalResponse{Modal: modal.Name(), State: modal.State(), Dismissed: closed}, "")
}

// Dismiss closes an open modal when the click landed outside its region
// @Router /console/modals/{name}/dismiss [post]
func (c *ModalController) Dismiss(ctx *gin.Context) {
	var req ModalRequest
	modal, ok := c.resolve(ctx, &req)
	if !ok {
		return
	}
	dismissed := modal.Dismiss(forms.NodeFromPath(req.Target))
	respond(ctx, http.StatusOK, ModalResponse{Modal: modal.Name(), State: modal.State(), Dismissed: dismissed}, "")
}

// resolve finds the modal named by the path, else by the body's "modal" field
func (c *ModalController) resolve(ctx *gin.Context, req *ModalRequest) (*forms.Modal, bool) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return nil, false
	}
	if req == nil {
		req = &ModalRequest{}
	}
	if ctx.Request.ContentLength != 0 {
		if !middleware.BindJSON(ctx, req) {
			return nil, false
		}
	}

	name := ctx.Param("name")
	if name == "" {
		name = req.Modal
	}
	modal, found := ws.Modal(name)
	if !found {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Unknown modal").WithField("modal")
		ctx.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return modal, true
}
