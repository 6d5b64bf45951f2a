package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

// HandleAPIError writes err as an ErrorResponse carrying the pending notifications
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if detail.Code == dto.ErrorCodeInternalServer && gin.Mode() != gin.ReleaseMode {
		detail = detail.WithDebugInfo("%v", err)
	}
	resp := dto.NewErrorResponse(detail)
	resp.Notices = Notices(c)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// ErrorDetailFor maps err onto an HTTP status and error detail
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	message := apperrors.Message(err)

	switch {
	case errors.Is(err, forms.ErrSubmitInProgress):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeSubmitInProgress, message).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrPlaceholderID):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, message)
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeNotAuthenticated, message)
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, message)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, message)
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		if fields := dto.NewFieldErrors(validation.Messages(err)); fields.HasErrors() {
			detail = detail.WithDetails(fields)
		}
		return http.StatusBadRequest, detail
	case apperrors.KindNetwork:
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeUpstreamUnreachable, message)
	case apperrors.KindCanceled:
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeRequestCanceled, "Request canceled").
			WithSeverity(dto.ErrorSeverityInfo)
	case apperrors.KindDataShape:
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeUnexpectedResponse, message)
	case apperrors.KindServer:
		upstream := apperrors.StatusOf(err)
		return serverStatus(upstream), serverDetail(err, message).WithStatus(upstream)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// serverStatus passes upstream 4xx through and reports anything else as a bad gateway
func serverStatus(upstream int) int {
	if upstream >= 400 && upstream < 500 {
		return upstream
	}
	return http.StatusBadGateway
}

func serverDetail(err error, message string) *dto.ErrorDetail {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return dto.NewErrorDetail(dto.ErrorCodeUnauthorized, message)
	case errors.Is(err, apperrors.ErrForbidden):
		return dto.NewErrorDetail(dto.ErrorCodeForbidden, message)
	case errors.Is(err, apperrors.ErrConflict):
		return dto.NewErrorDetail(dto.ErrorCodeConflict, message)
	case errors.Is(err, apperrors.ErrValidationFailed):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	default:
		return dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, message)
	}
}
