// Package http implements the SDK's request pipeline: request construction,
// default-header and credential injection, interceptor application, and
// retry execution with backoff.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// TokenProvider supplies the bearer credential for outbound requests. The
// active credential context implements it.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// Request describes an API call before it enters the pipeline.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Client executes API requests against a base URL. It owns its retry
// strategy and interceptor chain exclusively; configure both before issuing
// requests.
type Client struct {
	baseURL        string
	tokenProvider  TokenProvider
	strategy       *checkout.RetryStrategy
	interceptors   *checkout.InterceptorChain
	defaultHeaders map[string]string
	userAgent      string
	tenantID       string
	timeout        time.Duration
	logger         checkout.Logger
	debug          bool

	retryClient *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger checkout.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables per-attempt request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTenantID sets the X-Tenant-ID header on every request.
func WithTenantID(tenantID string) Option {
	return func(c *Client) {
		c.tenantID = tenantID
	}
}

// WithRetryStrategy replaces the default retry strategy.
func WithRetryStrategy(strategy *checkout.RetryStrategy) Option {
	return func(c *Client) {
		if strategy != nil {
			c.strategy = strategy
		}
	}
}

// WithTimeout bounds each transport attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithInterceptor adds an interceptor to the chain.
func WithInterceptor(interceptor checkout.Interceptor) Option {
	return func(c *Client) {
		c.interceptors.Add(interceptor)
	}
}

// WithDefaultHeader sets a header sent with every request unless a per-call
// header overrides it.
func WithDefaultHeader(name, value string) Option {
	return func(c *Client) {
		c.defaultHeaders[name] = value
	}
}

// NewClient creates a pipeline client. tokenProvider may be nil for
// unauthenticated requests.
func NewClient(baseURL string, tokenProvider TokenProvider, opts ...Option) *Client {
	client := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		tokenProvider:  tokenProvider,
		strategy:       checkout.DefaultRetryStrategy(),
		interceptors:   checkout.NewInterceptorChain(),
		defaultHeaders: make(map[string]string),
		userAgent:      checkout.DefaultUserAgent,
		timeout:        constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.retryClient = client.newRetryClient()

	return client
}

// Interceptors exposes the chain so callers can register additional
// interceptors before issuing requests.
func (c *Client) Interceptors() *checkout.InterceptorChain {
	return c.interceptors
}

// RetryStrategy returns the strategy owned by this client.
func (c *Client) RetryStrategy() *checkout.RetryStrategy {
	return c.strategy
}

func (c *Client) newRetryClient() *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = c.timeout
	retryClient.RetryMax = c.strategy.MaxAttempts
	retryClient.RetryWaitMin = c.strategy.BaseDelay
	retryClient.RetryWaitMax = c.strategy.MaxDelay
	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		// A response takes precedence over the transport error.
		if resp != nil {
			return c.strategy.RetryableStatus(resp.StatusCode), nil
		}

		if err != nil {
			return c.strategy.RetryableError(err), nil
		}

		return false, nil
	}

	retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *nethttp.Response) time.Duration {
		// attemptNum is 0-based; the strategy's attempt index is 1-based.
		return c.strategy.Delay(attemptNum + 1)
	}

	// Exhaustion with a response in hand still returns the response; callers
	// decide what a non-2xx status means. Only transport-level failures
	// surface as errors.
	retryClient.ErrorHandler = func(resp *nethttp.Response, err error, numTries int) (*nethttp.Response, error) {
		if resp != nil {
			return resp, nil
		}

		return nil, err
	}

	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *nethttp.Request, attempt int) {
		if counter, ok := req.Context().Value(attemptCounterKey{}).(*attemptCounter); ok {
			atomic.AddInt32(&counter.attempts, 1)
		}

		if c.debug && c.logger != nil {
			c.logger.Debug("HTTP Request", map[string]interface{}{
				"method":  req.Method,
				"url":     req.URL.String(),
				"attempt": attempt + 1,
			})
		}
	}

	retryClient.ResponseLogHook = func(_ retryablehttp.Logger, resp *nethttp.Response) {
		if c.debug && c.logger != nil {
			c.logger.Debug("HTTP Response", map[string]interface{}{
				"method":      resp.Request.Method,
				"url":         resp.Request.URL.String(),
				"status_code": resp.StatusCode,
			})
		}
	}

	return retryClient
}

type attemptCounterKey struct{}

type attemptCounter struct {
	attempts int32
}

// Do executes a request through the pipeline and returns the response
// regardless of its status code. The error is non-nil only for input-shape
// violations or exhausted transport failures.
func (c *Client) Do(ctx context.Context, req *Request) (*checkout.Response, error) {
	if !checkout.ValidMethod(req.Method) {
		return nil, fmt.Errorf("%w: %q", checkout.ErrUnsupportedMethod, req.Method)
	}

	interceptReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	err = c.interceptors.ApplyRequest(ctx, interceptReq)
	if err != nil {
		return nil, err
	}

	fullURL := c.resolveURL(interceptReq)

	counter := &attemptCounter{}
	attemptCtx := context.WithValue(ctx, attemptCounterKey{}, counter)

	var rawBody interface{}
	if len(interceptReq.Body) > 0 {
		rawBody = interceptReq.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(attemptCtx, interceptReq.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for name, values := range interceptReq.Headers {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		attempts := int(atomic.LoadInt32(&counter.attempts))
		if attempts == 0 {
			attempts = 1
		}

		return nil, &checkout.TransportError{
			Method:   interceptReq.Method,
			URL:      fullURL,
			Attempts: attempts,
			Err:      err,
		}
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &checkout.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	err = c.interceptors.ApplyResponse(ctx, interceptReq, resp)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// buildRequest merges default headers with per-call headers (per-call wins)
// and encodes the body when the method allows one.
func (c *Client) buildRequest(ctx context.Context, req *Request) (*checkout.Request, error) {
	headers := make(nethttp.Header)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	headers.Set("User-Agent", c.userAgent)

	if c.tenantID != "" {
		headers.Set(constants.HeaderTenantID, c.tenantID)
	}

	if c.tokenProvider != nil {
		token, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting credential token: %w", err)
		}

		if token != "" {
			headers.Set("Authorization", "Bearer "+token)
		}
	}

	for name, value := range c.defaultHeaders {
		headers.Set(name, value)
	}

	var body []byte

	if req.Body != nil && checkout.MethodAllowsBody(req.Method) {
		var err error

		switch typed := req.Body.(type) {
		case []byte:
			body = typed
		case string:
			body = []byte(typed)
		default:
			body, err = json.Marshal(typed)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}
		}
	}

	for name, value := range req.Headers {
		headers.Set(name, value)
	}

	query := make(url.Values, len(req.Query))
	for key, values := range req.Query {
		query[key] = append([]string(nil), values...)
	}

	return &checkout.Request{
		Method:  req.Method,
		Path:    req.Path,
		Query:   query,
		Headers: headers,
		Body:    body,
	}, nil
}

func (c *Client) resolveURL(req *checkout.Request) string {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	return fullURL
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodDelete, Path: path})
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, path string) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodHead, Path: path})
}

// Options performs an OPTIONS request.
func (c *Client) Options(ctx context.Context, path string) (*checkout.Response, error) {
	return c.Do(ctx, &Request{Method: checkout.MethodOptions, Path: path})
}
