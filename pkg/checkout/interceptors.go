package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/clubify-io/checkout-client/internal/constants"
)

// Interceptor transforms requests before they are sent and responses after
// they are received. Interceptors mutate the request/response in place and
// must not depend on ordering beyond their priority.
type Interceptor interface {
	// Priority orders the chain; higher runs earlier on the request phase.
	Priority() int
	// InterceptRequest is called before the request is executed.
	InterceptRequest(ctx context.Context, req *Request) error
	// InterceptResponse is called after a response is received. req is the
	// originating request.
	InterceptResponse(ctx context.Context, req *Request, resp *Response) error
}

// chainEntry pairs an interceptor with its insertion index so ties on
// priority keep insertion order.
type chainEntry struct {
	interceptor Interceptor
	seq         int
}

// InterceptorChain applies interceptors in descending priority order on the
// request phase and in the exact reverse order on the response phase, so the
// interceptor that ran first outbound runs last inbound.
//
// Mutating the chain while requests are in flight is not safe; configure it
// before use.
type InterceptorChain struct {
	entries []chainEntry
	nextSeq int
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// Add inserts an interceptor and re-sorts the chain. The sort is stable on
// insertion order for equal priorities.
func (c *InterceptorChain) Add(interceptor Interceptor) {
	c.entries = append(c.entries, chainEntry{interceptor: interceptor, seq: c.nextSeq})
	c.nextSeq++

	sort.SliceStable(c.entries, func(i, j int) bool {
		if c.entries[i].interceptor.Priority() != c.entries[j].interceptor.Priority() {
			return c.entries[i].interceptor.Priority() > c.entries[j].interceptor.Priority()
		}

		return c.entries[i].seq < c.entries[j].seq
	})
}

// Clear empties the chain.
func (c *InterceptorChain) Clear() {
	c.entries = nil
}

// Len returns the number of interceptors in the chain.
func (c *InterceptorChain) Len() int {
	return len(c.entries)
}

// ApplyRequest runs the request phase in descending priority order.
func (c *InterceptorChain) ApplyRequest(ctx context.Context, req *Request) error {
	for _, entry := range c.entries {
		err := entry.interceptor.InterceptRequest(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ApplyResponse runs the response phase in the reverse of the request order.
func (c *InterceptorChain) ApplyResponse(ctx context.Context, req *Request, resp *Response) error {
	for i := len(c.entries) - 1; i >= 0; i-- {
		err := c.entries[i].interceptor.InterceptResponse(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// funcInterceptor adapts plain functions into an Interceptor.
type funcInterceptor struct {
	priority   int
	onRequest  func(ctx context.Context, req *Request) error
	onResponse func(ctx context.Context, req *Request, resp *Response) error
}

func (f *funcInterceptor) Priority() int { return f.priority }

func (f *funcInterceptor) InterceptRequest(ctx context.Context, req *Request) error {
	if f.onRequest == nil {
		return nil
	}

	return f.onRequest(ctx, req)
}

func (f *funcInterceptor) InterceptResponse(ctx context.Context, req *Request, resp *Response) error {
	if f.onResponse == nil {
		return nil
	}

	return f.onResponse(ctx, req, resp)
}

// NewInterceptor builds an interceptor from functions. Either function may be
// nil.
func NewInterceptor(priority int, onRequest func(ctx context.Context, req *Request) error, onResponse func(ctx context.Context, req *Request, resp *Response) error) Interceptor {
	return &funcInterceptor{priority: priority, onRequest: onRequest, onResponse: onResponse}
}

// Common interceptor priorities. Logging wraps everything; auth runs close to
// the wire.
const (
	PriorityLogging = 100
	PriorityMetrics = 90
	PriorityHeaders = 50
	PriorityAuth    = 10
)

// LoggingInterceptor logs requests and responses through the SDK logger.
func LoggingInterceptor(logger Logger) Interceptor {
	return NewInterceptor(PriorityLogging,
		func(ctx context.Context, req *Request) error {
			logger.Debug("API Request", map[string]interface{}{
				"method": req.Method,
				"path":   req.Path,
			})

			return nil
		},
		func(ctx context.Context, req *Request, resp *Response) error {
			logger.Debug("API Response", map[string]interface{}{
				"method":      req.Method,
				"path":        req.Path,
				"status_code": resp.StatusCode,
			})

			return nil
		})
}

// HeaderInterceptor adds static headers to every request.
func HeaderInterceptor(headers map[string]string) Interceptor {
	return NewInterceptor(PriorityHeaders,
		func(ctx context.Context, req *Request) error {
			if req.Headers == nil {
				req.Headers = make(http.Header)
			}

			for key, value := range headers {
				req.Headers.Set(key, value)
			}

			return nil
		},
		nil)
}

// BearerAuthInterceptor sets the Authorization header from a token provider.
func BearerAuthInterceptor(tokenProvider func(context.Context) (string, error)) Interceptor {
	return NewInterceptor(PriorityAuth,
		func(ctx context.Context, req *Request) error {
			token, err := tokenProvider(ctx)
			if err != nil {
				return fmt.Errorf("failed to get authentication token: %w", err)
			}

			if req.Headers == nil {
				req.Headers = make(http.Header)
			}

			req.Headers.Set("Authorization", "Bearer "+token)

			return nil
		},
		nil)
}

// RequestIDInterceptor stamps a request ID header when none is present.
func RequestIDInterceptor(generate func() string) Interceptor {
	return NewInterceptor(PriorityHeaders,
		func(ctx context.Context, req *Request) error {
			if req.Headers == nil {
				req.Headers = make(http.Header)
			}

			if req.Headers.Get(constants.HeaderRequestID) == "" {
				req.Headers.Set(constants.HeaderRequestID, generate())
			}

			return nil
		},
		nil)
}

// Metrics aggregates call statistics for one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects per-endpoint API metrics.
type MetricsCollector struct {
	mu      sync.Mutex
	metrics map[string]*Metrics
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{metrics: make(map[string]*Metrics)}
}

// Snapshot returns a copy of the metrics for an endpoint, or nil.
func (m *MetricsCollector) Snapshot(endpoint string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		return nil
	}

	clone := *metrics

	return &clone
}

// MetricsInterceptor records request latency and error counts per endpoint.
func MetricsInterceptor(collector *MetricsCollector) Interceptor {
	return NewInterceptor(PriorityMetrics,
		func(ctx context.Context, req *Request) error {
			if req.Metadata == nil {
				req.Metadata = make(map[string]interface{})
			}

			req.Metadata["start_time"] = time.Now()

			return nil
		},
		func(ctx context.Context, req *Request, resp *Response) error {
			endpoint := req.Method + " " + req.Path

			collector.mu.Lock()
			defer collector.mu.Unlock()

			metrics, ok := collector.metrics[endpoint]
			if !ok {
				metrics = &Metrics{}
				collector.metrics[endpoint] = metrics
			}

			metrics.TotalRequests++
			metrics.LastRequestTime = time.Now()

			if startTime, ok := req.Metadata["start_time"].(time.Time); ok {
				latency := time.Since(startTime)
				metrics.TotalLatency += latency
				metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
			}

			if resp.StatusCode >= 400 {
				metrics.TotalErrors++
			}

			return nil
		})
}
