package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrBaseURLRequired       = errors.New("base URL is required")
	ErrUnknownEnvironment    = errors.New("unknown environment")
	ErrUnsupportedMethod     = errors.New("unsupported HTTP method")
	ErrContextNotFound       = errors.New("credential context not found")
	ErrCredentialsRequired   = errors.New("credentials are required")
	ErrTenantIDRequired      = errors.New("tenant ID is required")
	ErrIdempotencyKeyEmpty   = errors.New("idempotency key must not be empty")
	ErrConflictNotResolvable = errors.New("conflict is not auto-resolvable")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrCacheMiss             = errors.New("cache miss")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
)

// APIError represents a single error returned by the checkout API.
type APIError struct {
	Code    string `json:"code"            yaml:"code"`
	Message string `json:"message"         yaml:"message"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError represents a non-2xx response surfaced by a caller after
// inspecting the status code. The request pipeline itself never raises it.
type ResponseError struct {
	StatusCode int        `json:"status_code" yaml:"status_code"`
	Errors     []APIError `json:"errors"      yaml:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	switch len(e.Errors) {
	case 0:
		return fmt.Sprintf("API responded with status %d", e.StatusCode)
	case 1:
		return fmt.Sprintf("API responded with status %d: %s", e.StatusCode, e.Errors[0].Error())
	default:
		return fmt.Sprintf("API responded with status %d: %v", e.StatusCode, e.Errors)
	}
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// TransportError is raised when every attempt was exhausted without a usable
// response. It carries the attempt count and wraps the last underlying
// failure.
type TransportError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
}

// Unwrap returns the last underlying failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthenticationError signals malformed or missing credentials. It is never
// retried.
type AuthenticationError struct {
	Reason string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "authentication error: " + e.Reason
}

// ValidationError signals a caller-side input-shape violation. It is never
// retried.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on %q: %s", e.Field, e.Message)
	}

	return "validation error: " + e.Message
}

// ConfigurationError signals invalid settings detected at startup. It is
// fatal and never retried.
type ConfigurationError struct {
	Setting string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on %q: %s", e.Setting, e.Message)
}

// ErrorFromResponse converts a non-2xx response into a typed error. A 409
// becomes a *ConflictError with its structured metadata intact; everything
// else becomes a *ResponseError. A 2xx response yields nil.
func ErrorFromResponse(resp *Response) error {
	if resp == nil || resp.IsSuccessful() {
		return nil
	}

	if resp.StatusCode == http.StatusConflict {
		return ParseConflictResponse(resp)
	}

	respErr := &ResponseError{StatusCode: resp.StatusCode}
	// Malformed bodies are tolerated; the status code alone is enough.
	_ = json.Unmarshal(resp.Body, respErr)
	respErr.StatusCode = resp.StatusCode

	return respErr
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 response.
func IsUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 response.
func IsForbidden(err error) bool {
	return isStatus(err, http.StatusForbidden)
}

// IsConflict checks if the error is a structured 409 conflict.
func IsConflict(err error) bool {
	conflictErr := &ConflictError{}

	return errors.As(err, &conflictErr)
}

func isStatus(err error, code int) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == code
	}

	return false
}
