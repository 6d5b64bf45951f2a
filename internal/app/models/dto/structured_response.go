package dto

import (
	"time"

	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// StructuredResponse is the envelope of every console response
type StructuredResponse struct {
	Success   bool            `json:"success" example:"true"`
	Message   string          `json:"message" example:"Operation completed successfully"`
	Data      interface{}     `json:"data,omitempty"`
	Error     *ErrorDetail    `json:"error,omitempty"`
	Notices   []notify.Notice `json:"notices,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewStructuredResponse creates a standard structured API response
func NewStructuredResponse(data interface{}, message string) StructuredResponse {
	return StructuredResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// WithNotices attaches the notifications raised while serving the request
func (r StructuredResponse) WithNotices(notices []notify.Notice) StructuredResponse {
	if len(notices) > 0 {
		r.Notices = notices
	}
	return r
}

// PaginationInfo describes one page of a list
type PaginationInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
	Loading    bool           `json:"loading"`
}
