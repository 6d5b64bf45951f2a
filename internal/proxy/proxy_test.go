package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestForwardsPrefixedPaths(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/communities", r.URL.Path)
		assert.Equal(t, "page=2", r.URL.RawQuery)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Forwarded-For"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"_id":"c1"}]`)
	}))
	defer backend.Close()

	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	up := New(target, []string{"/api", "/auth"}, nil, zerolog.Nop())

	router := gin.New()
	up.Mount(router)

	req := httptest.NewRequest(http.MethodGet, "/api/communities?page=2", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"_id":"c1"}]`, w.Body.String())
}

func TestUnreachableUpstreamIsBadGateway(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	target, _ := url.Parse(backend.URL)
	backend.Close()

	up := New(target, []string{"/auth"}, nil, zerolog.Nop())
	router := gin.New()
	up.Mount(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrorCodeUpstreamUnreachable, resp.Error.Code)
}

func TestHandles(t *testing.T) {
	up := New(&url.URL{Scheme: "http", Host: "upstream"}, []string{"/api", "/auth/"}, nil, zerolog.Nop())
	assert.True(t, up.Handles("/api"))
	assert.True(t, up.Handles("/api/events"))
	assert.True(t, up.Handles("/auth/login"))
	assert.False(t, up.Handles("/apix"))
	assert.False(t, up.Handles("/console/communities"))
}
