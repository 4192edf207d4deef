package checkout

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/clubify-io/checkout-client/internal/constants"
)

// BackoffKind selects the delay policy between retry attempts.
type BackoffKind string

const (
	// BackoffExponential doubles the base delay on every attempt.
	BackoffExponential BackoffKind = "exponential"

	// BackoffLinear grows the delay linearly with the attempt number.
	BackoffLinear BackoffKind = "linear"

	// BackoffFixed uses the base delay for every attempt.
	BackoffFixed BackoffKind = "fixed"
)

// DefaultRetryableStatuses are the status codes retried when no explicit set
// is configured.
var DefaultRetryableStatuses = []int{408, 429, 500, 502, 503, 504}

// transientErrorHints classify transport errors as retryable when the error
// message contains one of these substrings (case-insensitive).
var transientErrorHints = []string{
	"curl error",
	"connection timeout",
	"connection refused",
	"network unreachable",
	"temporary failure",
	"timeout",
}

// retryableError is implemented by errors that carry an explicit retry hint.
type retryableError interface {
	Retryable() bool
}

// RetryStrategy decides whether a failed attempt should be retried and how
// long to wait before the next one. A strategy is owned by a single HTTP
// client and is safe for concurrent reads once constructed.
type RetryStrategy struct {
	// MaxAttempts is the number of retries after the initial try.
	MaxAttempts int
	// BaseDelay is the delay unit the backoff policy scales.
	BaseDelay time.Duration
	// MaxDelay caps the computed delay for every attempt.
	MaxDelay time.Duration
	// Backoff selects the delay growth policy.
	Backoff BackoffKind

	retryableStatuses map[int]struct{}
}

// NewRetryStrategy builds a strategy. When statuses is empty,
// DefaultRetryableStatuses is used.
func NewRetryStrategy(maxAttempts int, baseDelay, maxDelay time.Duration, backoff BackoffKind, statuses ...int) *RetryStrategy {
	if len(statuses) == 0 {
		statuses = DefaultRetryableStatuses
	}

	set := make(map[int]struct{}, len(statuses))
	for _, code := range statuses {
		set[code] = struct{}{}
	}

	return &RetryStrategy{
		MaxAttempts:       maxAttempts,
		BaseDelay:         baseDelay,
		MaxDelay:          maxDelay,
		Backoff:           backoff,
		retryableStatuses: set,
	}
}

// DefaultRetryStrategy returns the strategy used when a client is built
// without explicit retry configuration.
func DefaultRetryStrategy() *RetryStrategy {
	return NewRetryStrategy(
		constants.DefaultRetryMax,
		constants.DefaultRetryBaseDelay,
		constants.DefaultRetryWaitMax,
		BackoffExponential,
	)
}

// ShouldRetry decides whether another attempt should be made. attempt is the
// 1-based index of the attempt that just failed.
//
// A response takes precedence over an error: when resp is non-nil the
// decision is made solely on its status code, even if err hints at a network
// problem. Downstream behavior depends on this exact precedence.
func (s *RetryStrategy) ShouldRetry(attempt int, err error, resp *Response) bool {
	if attempt >= s.MaxAttempts {
		return false
	}

	if resp != nil {
		return s.RetryableStatus(resp.StatusCode)
	}

	if err != nil {
		return s.RetryableError(err)
	}

	return false
}

// RetryableStatus reports whether code belongs to the retryable status set.
func (s *RetryStrategy) RetryableStatus(code int) bool {
	_, ok := s.retryableStatuses[code]

	return ok
}

// RetryableError classifies a transport error. Context cancellation,
// deadline expiry, and DNS resolution failures are never retried; errors
// exposing an explicit Retryable flag decide for themselves; everything else
// is matched against the transient message hints.
func (s *RetryStrategy) RetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	var hinted retryableError
	if errors.As(err, &hinted) {
		return hinted.Retryable()
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range transientErrorHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}

	return false
}

// Delay computes the wait before the given 1-based attempt, clamped to
// MaxDelay. Callers must honor context cancellation while waiting instead of
// blocking unconditionally.
func (s *RetryStrategy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	var delay time.Duration

	switch s.Backoff {
	case BackoffLinear:
		delay = s.BaseDelay * time.Duration(attempt)
	case BackoffFixed:
		delay = s.BaseDelay
	case BackoffExponential:
		fallthrough
	default:
		shift := attempt - 1
		if shift > constants.MaxBackoffShift {
			shift = constants.MaxBackoffShift
		}

		delay = s.BaseDelay * time.Duration(int64(1)<<uint(shift))
	}

	if s.MaxDelay > 0 && delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	return delay
}
