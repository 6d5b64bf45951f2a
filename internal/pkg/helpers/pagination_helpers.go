package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

// Page size limits for console grids. Pages are 1-based.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NewPaginationInfo describes page of a list holding totalItems. A page past
// the end is clamped to the last page; an empty list still has one page.
func NewPaginationInfo(totalItems int, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := (totalItems + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	return dto.PaginationInfo{
		CurrentPage: min(max(page, 1), totalPages),
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads ?page and ?size, falling back to page 1 and
// defaultSize for missing or out of range values
func ParsePaginationParams(c *gin.Context, defaultSize int) (page, size int) {
	if defaultSize <= 0 || defaultSize > MaxPageSize {
		defaultSize = DefaultPageSize
	}
	page = queryInt(c, "page", 1, 1, int(^uint(0)>>1))
	size = queryInt(c, "size", defaultSize, 1, MaxPageSize)
	return page, size
}

func queryInt(c *gin.Context, key string, fallback, lo, hi int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < lo || n > hi {
		return fallback
	}
	return n
}

// Paginate returns the requested page of items and its pagination info
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	info := NewPaginationInfo(len(items), page, size)
	start := min((info.CurrentPage-1)*info.PageSize, len(items))
	end := min(start+info.PageSize, len(items))
	return items[start:end], info
}
