package checkout

import (
	"net/http"
	"net/url"
)

// HTTP methods accepted by the request pipeline.
const (
	MethodGet     = http.MethodGet
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodHead    = http.MethodHead
	MethodOptions = http.MethodOptions
)

var supportedMethods = map[string]struct{}{
	MethodGet:     {},
	MethodPost:    {},
	MethodPut:     {},
	MethodPatch:   {},
	MethodDelete:  {},
	MethodHead:    {},
	MethodOptions: {},
}

// ValidMethod reports whether method is one of the verbs the pipeline accepts.
func ValidMethod(method string) bool {
	_, ok := supportedMethods[method]

	return ok
}

// MethodAllowsBody reports whether a request body may be attached to method.
// Bodies are only sent with POST, PUT, and PATCH.
func MethodAllowsBody(method string) bool {
	switch method {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

// IdempotentMethod reports whether method is idempotent per HTTP semantics.
func IdempotentMethod(method string) bool {
	switch method {
	case MethodGet, MethodHead, MethodOptions, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// Request represents an outbound API request as seen by interceptors. The
// body, when present, is already JSON-encoded; Query is appended to Path when
// the request is executed.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an API response as seen by interceptors and callers.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccessful reports whether the status code is in [200, 300). The request
// pipeline never interprets the status itself; callers branch on this.
func (r *Response) IsSuccessful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
