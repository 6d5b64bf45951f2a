// Package client talks to the upstream community API. It carries no state
// beyond the session cookie jar and the bearer token store.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/auth"
	"golang.org/x/time/rate"
)

// Options configures a Client
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RateLimit     float64 // requests per second, 0 disables pacing
	Burst         int
	TLSSkipVerify bool
	// Retries applies to GET requests only; mutations are never repeated
	Retries    int
	RetryDelay time.Duration
	Tokens     auth.TokenStore
	Logger     zerolog.Logger
	// HTTPClient replaces the default transport (tests)
	HTTPClient *http.Client
}

// Client is the HTTP client for the upstream API
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	tokens     auth.TokenStore
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	log        zerolog.Logger
	headers    map[string]string
	mu         sync.RWMutex
}

// File is an upload part
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Request represents an HTTP request to be executed
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	// Form, when set, sends a multipart body instead of JSON
	Form *Form
}

// Form is a multipart body: plain fields plus at most one file under FileField
type Form struct {
	Fields    map[string]string
	FileField string
	File      *File
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// New creates a client for the upstream at opts.BaseURL
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", opts.BaseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Tokens == nil {
		opts.Tokens = auth.NewMemoryTokenStore("")
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: opts.TLSSkipVerify}, //nolint:gosec // opt-in for dev upstreams
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: opts.Timeout,
		}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		tokens:     opts.Tokens,
		limiter:    rate.NewLimiter(limit, burst),
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		log:        opts.Logger,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "community-admin-console/1.0",
		},
	}, nil
}

// Tokens returns the bearer token store
func (c *Client) Tokens() auth.TokenStore { return c.tokens }

// BaseURL returns the upstream base url
func (c *Client) BaseURL() string { return c.baseURL.String() }

// SetHeader sets a default header for all requests
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// Do executes req. Transport failures, cancellations and non-2xx statuses are
// returned as *apperrors.Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	op := req.Method + " " + req.Path

	u, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	attempts := 1
	if req.Method == http.MethodGet {
		attempts += c.retries
	}

	var resp *Response
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewCanceledError(op, ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}

		resp, err = c.roundTrip(ctx, op, req.Method, u, body, contentType)
		if !c.shouldRetry(resp, err) {
			break
		}
		c.log.Debug().Str("op", op).Int("attempt", attempt+1).Msg("Retrying upstream request")
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, apperrors.NewServerError(op, resp.StatusCode, extractMessage(resp.Body))
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, op, method string, u *url.URL, body []byte, contentType string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewCanceledError(op, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	c.setHeaders(httpReq)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	c.authenticate(httpReq)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewCanceledError(op, ctx.Err())
		}
		c.log.Warn().Err(err).Str("op", op).Dur("duration", duration).Msg("Upstream request failed")
		return nil, apperrors.NewNetworkError(op, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewCanceledError(op, ctx.Err())
		}
		return nil, apperrors.NewNetworkError(op, fmt.Errorf("reading response body: %w", err))
	}

	c.log.Debug().Str("op", op).Int("status", httpResp.StatusCode).Dur("duration", duration).Msg("Upstream request")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       data,
		Duration:   duration,
	}, nil
}

func (c *Client) shouldRetry(resp *Response, err error) bool {
	if err != nil {
		return errors.Is(err, apperrors.ErrNetwork)
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

func (c *Client) backoff(attempt int) time.Duration {
	return time.Duration(float64(c.retryDelay) * math.Pow(2, float64(attempt-1)))
}

// authenticate attaches the stored bearer token, if any, next to the cookie session
func (c *Client) authenticate(req *http.Request) {
	token := c.tokens.Token()
	if token == "" {
		return
	}
	if err := auth.CheckUsable(token, time.Now()); err != nil {
		c.log.Debug().Err(err).Msg("Sending stored token that is no longer usable")
	}
	req.Header.Set("Authorization", auth.BearerHeader(token))
}

// JSON executes req and decodes a non-empty response body into out
func (c *Client) JSON(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apperrors.NewDataShapeError(req.Method+" "+req.Path, "unexpected response: "+err.Error())
	}
	return nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.JSON(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.JSON(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.JSON(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.JSON(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Upload sends a multipart form with one file under the "image" field
func (c *Client) Upload(ctx context.Context, method, path string, fields map[string]string, file File, out interface{}) error {
	return c.JSON(ctx, Request{
		Method: method,
		Path:   path,
		Form:   &Form{Fields: fields, FileField: "image", File: &file},
	}, out)
}

// buildURL builds a complete URL from path and query parameters
func (c *Client) buildURL(path string, query url.Values) (*url.URL, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := c.baseURL.Parse(c.baseURL.Path + path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func (c *Client) setHeaders(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

func encodeBody(req Request) ([]byte, string, error) {
	switch {
	case req.Form != nil:
		return encodeMultipart(req.Form)
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(form *Form) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", k, err)
		}
	}

	if form.File != nil {
		field := form.FileField
		if field == "" {
			field = "image"
		}
		contentType := form.File.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(form.File.Content)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, escapeQuotes(form.File.Name)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating file part: %w", err)
		}
		if _, err := part.Write(form.File.Content); err != nil {
			return nil, "", fmt.Errorf("writing file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// extractMessage pulls {error} then {message} out of an error body
func extractMessage(body []byte) string {
	var e dto.UpstreamError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Text()
}
