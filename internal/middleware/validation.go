package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

var bindingNames sync.Once

// BindJSON decodes the request body into obj, answering 400 when it is not
// valid JSON. Field rules are checked by the forms so their messages match the UI.
func BindJSON(c *gin.Context, obj interface{}) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(obj); err != nil {
		abortBinding(c, "Invalid request format", err)
		return false
	}
	return true
}

// BindForm decodes a multipart or urlencoded body into obj
func BindForm(c *gin.Context, obj interface{}) bool {
	useJSONFieldNames()
	if err := c.ShouldBind(obj); err != nil {
		abortBinding(c, "Invalid form data", err)
		return false
	}
	return true
}

// abortBinding answers 400, listing the failing fields when the binding tags rejected the body
func abortBinding(c *gin.Context, message string, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if fields := dto.NewFieldErrors(validation.Messages(err)); fields.HasErrors() {
		errorDetail = errorDetail.WithDetails(fields)
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}
	resp := dto.NewErrorResponse(errorDetail)
	resp.Notices = Notices(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// useJSONFieldNames makes gin's binding validator report json field names
func useJSONFieldNames() {
	bindingNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(validation.JSONFieldName)
		}
	})
}
