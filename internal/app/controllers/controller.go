// Package controllers handles the console's HTTP requests. Every handler acts
// on the caller's workspace and answers with the notifications it raised.
package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/pages"
	"github.com/yigit/communityadmin/internal/middleware"
)

// maxUploadSize bounds photo and image uploads
const maxUploadSize = 10 << 20

// respond writes data in a StructuredResponse with the pending notifications
func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewStructuredResponse(data, message).WithNotices(middleware.Notices(ctx)))
}

// workspaceOf returns the caller's workspace, answering 500 when none is attached
func workspaceOf(ctx *gin.Context) (*pages.Workspace, bool) {
	ws, ok := middleware.CurrentWorkspace(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "No console session")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return ws, true
}

// formFile reads the optional upload under field. A missing file is not an error.
func formFile(ctx *gin.Context, field string) (*client.File, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", field, maxUploadSize)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", field, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	return &client.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// badUpload answers 400 for an unreadable upload
func badUpload(ctx *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid file upload").WithDetails(err.Error())
	resp := dto.NewErrorResponse(errorDetail)
	resp.Notices = middleware.Notices(ctx)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
