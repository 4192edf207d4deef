package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clubify-io/checkout-client/pkg/checkout"
)

type hintedError struct {
	retryable bool
}

func (e *hintedError) Error() string {
	return "hinted failure"
}

func (e *hintedError) Retryable() bool {
	return e.retryable
}

func TestRetryStrategy_ShouldRetry(t *testing.T) {
	t.Parallel()

	strategy := checkout.NewRetryStrategy(3, time.Second, 30*time.Second, checkout.BackoffExponential)

	t.Run("retries a 503 response", func(t *testing.T) {
		t.Parallel()

		resp := &checkout.Response{StatusCode: 503}
		assert.True(t, strategy.ShouldRetry(1, nil, resp))
	})

	t.Run("does not retry a 404 response", func(t *testing.T) {
		t.Parallel()

		resp := &checkout.Response{StatusCode: 404}
		assert.False(t, strategy.ShouldRetry(1, nil, resp))
	})

	t.Run("stops at max attempts even for retryable statuses", func(t *testing.T) {
		t.Parallel()

		resp := &checkout.Response{StatusCode: 503}
		assert.True(t, strategy.ShouldRetry(2, nil, resp))
		assert.False(t, strategy.ShouldRetry(3, nil, resp))
		assert.False(t, strategy.ShouldRetry(4, nil, resp))
	})

	t.Run("response outranks a retryable error", func(t *testing.T) {
		t.Parallel()

		// A non-retryable status wins even when the error alone would retry.
		resp := &checkout.Response{StatusCode: 404}
		err := errors.New("connection refused")
		assert.False(t, strategy.ShouldRetry(1, err, resp))
	})

	t.Run("nothing to decide on means no retry", func(t *testing.T) {
		t.Parallel()

		assert.False(t, strategy.ShouldRetry(1, nil, nil))
	})

	t.Run("custom status set replaces the default", func(t *testing.T) {
		t.Parallel()

		custom := checkout.NewRetryStrategy(3, time.Second, 30*time.Second, checkout.BackoffExponential, 418)
		assert.True(t, custom.ShouldRetry(1, nil, &checkout.Response{StatusCode: 418}))
		assert.False(t, custom.ShouldRetry(1, nil, &checkout.Response{StatusCode: 503}))
	})
}

func TestRetryStrategy_RetryableError(t *testing.T) {
	t.Parallel()

	strategy := checkout.DefaultRetryStrategy()

	t.Run("context cancellation never retries", func(t *testing.T) {
		t.Parallel()

		assert.False(t, strategy.RetryableError(context.Canceled))
		assert.False(t, strategy.RetryableError(context.DeadlineExceeded))
		assert.False(t, strategy.RetryableError(fmt.Errorf("doing request: %w", context.Canceled)))
	})

	t.Run("DNS failures never retry", func(t *testing.T) {
		t.Parallel()

		dnsErr := &net.DNSError{Err: "no such host", Name: "api.example.com"}
		assert.False(t, strategy.RetryableError(dnsErr))
		assert.False(t, strategy.RetryableError(fmt.Errorf("doing request: %w", dnsErr)))
	})

	t.Run("explicit retryable flag decides", func(t *testing.T) {
		t.Parallel()

		assert.True(t, strategy.RetryableError(&hintedError{retryable: true}))
		assert.False(t, strategy.RetryableError(&hintedError{retryable: false}))
	})

	t.Run("transient message hints retry", func(t *testing.T) {
		t.Parallel()

		assert.True(t, strategy.RetryableError(errors.New("dial tcp: Connection Refused")))
		assert.True(t, strategy.RetryableError(errors.New("read: connection timeout")))
		assert.True(t, strategy.RetryableError(errors.New("network unreachable")))
		assert.True(t, strategy.RetryableError(errors.New("temporary failure in name resolution")))
		assert.True(t, strategy.RetryableError(errors.New("proxy: Curl error (52): empty reply from server")))
		assert.False(t, strategy.RetryableError(errors.New("tls: bad certificate")))
	})
}

func TestRetryStrategy_Delay(t *testing.T) {
	t.Parallel()

	t.Run("exponential backoff doubles per attempt", func(t *testing.T) {
		t.Parallel()

		strategy := checkout.NewRetryStrategy(5, 1000*time.Millisecond, time.Minute, checkout.BackoffExponential)

		assert.Equal(t, 1000*time.Millisecond, strategy.Delay(1))
		assert.Equal(t, 2000*time.Millisecond, strategy.Delay(2))
		assert.Equal(t, 4000*time.Millisecond, strategy.Delay(3))
		assert.Equal(t, 8000*time.Millisecond, strategy.Delay(4))
	})

	t.Run("linear backoff grows with the attempt", func(t *testing.T) {
		t.Parallel()

		strategy := checkout.NewRetryStrategy(5, 500*time.Millisecond, time.Minute, checkout.BackoffLinear)

		assert.Equal(t, 500*time.Millisecond, strategy.Delay(1))
		assert.Equal(t, 1000*time.Millisecond, strategy.Delay(2))
		assert.Equal(t, 1500*time.Millisecond, strategy.Delay(3))
	})

	t.Run("fixed backoff is constant", func(t *testing.T) {
		t.Parallel()

		strategy := checkout.NewRetryStrategy(5, 750*time.Millisecond, time.Minute, checkout.BackoffFixed)

		assert.Equal(t, 750*time.Millisecond, strategy.Delay(1))
		assert.Equal(t, 750*time.Millisecond, strategy.Delay(4))
	})

	t.Run("delays clamp to the configured maximum", func(t *testing.T) {
		t.Parallel()

		strategy := checkout.NewRetryStrategy(10, time.Second, 5*time.Second, checkout.BackoffExponential)

		assert.Equal(t, 4*time.Second, strategy.Delay(3))
		assert.Equal(t, 5*time.Second, strategy.Delay(4))
		assert.Equal(t, 5*time.Second, strategy.Delay(10))
	})

	t.Run("huge attempt numbers do not overflow", func(t *testing.T) {
		t.Parallel()

		strategy := checkout.NewRetryStrategy(100, time.Second, 30*time.Second, checkout.BackoffExponential)

		assert.Equal(t, 30*time.Second, strategy.Delay(80))
	})

	t.Run("attempts below one behave like the first", func(t *testing.T) {
		t.Parallel()

		strategy := checkout.NewRetryStrategy(5, time.Second, time.Minute, checkout.BackoffExponential)

		assert.Equal(t, time.Second, strategy.Delay(0))
		assert.Equal(t, time.Second, strategy.Delay(-3))
	})
}
