// Package proxy forwards the browser shell's direct /api and /auth calls to
// the upstream backend.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

// Upstream is a reverse proxy to one backend
type Upstream struct {
	target   *url.URL
	prefixes []string
	proxy    *httputil.ReverseProxy
	log      zerolog.Logger
}

// New creates a proxy to target for the given path prefixes
func New(target *url.URL, prefixes []string, transport http.RoundTripper, log zerolog.Logger) *Upstream {
	u := &Upstream{target: target, prefixes: prefixes, log: log}
	u.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			// upstream session cookies are scoped to the backend host
			r.Out.Host = target.Host
		},
		Transport:     transport,
		FlushInterval: 100 * time.Millisecond,
		ErrorHandler:  u.handleError,
	}
	return u
}

// Prefixes returns the proxied path prefixes
func (u *Upstream) Prefixes() []string { return u.prefixes }

// Handles reports whether path is forwarded
func (u *Upstream) Handles(path string) bool {
	for _, p := range u.prefixes {
		if path == p || strings.HasPrefix(path, strings.TrimRight(p, "/")+"/") {
			return true
		}
	}
	return false
}

// ServeHTTP implements http.Handler
func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.proxy.ServeHTTP(w, r)
}

// Handler adapts the proxy to gin
func (u *Upstream) Handler() gin.HandlerFunc {
	return gin.WrapH(u)
}

// Mount registers the proxy on router for every prefix
func (u *Upstream) Mount(router gin.IRoutes) {
	for _, p := range u.prefixes {
		p = strings.TrimRight(p, "/")
		router.Any(p+"/*path", u.Handler())
	}
}

func (u *Upstream) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	code := dto.ErrorCodeUpstreamUnreachable
	message := "Upstream API unreachable"
	if errors.Is(err, context.Canceled) {
		u.log.Debug().Str("path", r.URL.Path).Msg("Proxied request canceled by client")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
		message = "Upstream API timed out"
	}
	u.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Proxy error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
