package checkout_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubify-io/checkout-client/pkg/checkout"
)

func TestErrorFromResponse(t *testing.T) {
	t.Parallel()

	t.Run("2xx responses yield nil", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, checkout.ErrorFromResponse(&checkout.Response{StatusCode: 200}))
		assert.NoError(t, checkout.ErrorFromResponse(&checkout.Response{StatusCode: 204}))
		assert.NoError(t, checkout.ErrorFromResponse(nil))
	})

	t.Run("409 becomes a structured conflict", func(t *testing.T) {
		t.Parallel()

		body := `{"message":"taken","conflict_type":"domain_exists","conflict_fields":["domain"]}`
		err := checkout.ErrorFromResponse(&checkout.Response{StatusCode: 409, Body: []byte(body)})
		require.Error(t, err)

		var conflict *checkout.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, checkout.ConflictDomainExists, conflict.ConflictType)
		assert.True(t, checkout.IsConflict(err))
	})

	t.Run("other statuses become response errors", func(t *testing.T) {
		t.Parallel()

		body := `{"errors":[{"code":"not_found","message":"order not found"}]}`
		err := checkout.ErrorFromResponse(&checkout.Response{StatusCode: 404, Body: []byte(body)})
		require.Error(t, err)

		var respErr *checkout.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, 404, respErr.StatusCode)
		require.NotNil(t, respErr.FirstError())
		assert.Equal(t, "not_found", respErr.FirstError().Code)
	})

	t.Run("malformed bodies keep the status code", func(t *testing.T) {
		t.Parallel()

		err := checkout.ErrorFromResponse(&checkout.Response{StatusCode: 502, Body: []byte("<html>bad gateway</html>")})
		require.Error(t, err)

		var respErr *checkout.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, 502, respErr.StatusCode)
		assert.Nil(t, respErr.FirstError())
	})
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	notFound := checkout.ErrorFromResponse(&checkout.Response{StatusCode: 404})
	unauthorized := checkout.ErrorFromResponse(&checkout.Response{StatusCode: 401})
	forbidden := checkout.ErrorFromResponse(&checkout.Response{StatusCode: 403})

	assert.True(t, checkout.IsNotFound(notFound))
	assert.False(t, checkout.IsNotFound(unauthorized))

	assert.True(t, checkout.IsUnauthorized(unauthorized))
	assert.True(t, checkout.IsForbidden(forbidden))

	// Wrapped errors still match.
	wrapped := fmt.Errorf("getting order: %w", notFound)
	assert.True(t, checkout.IsNotFound(wrapped))

	assert.False(t, checkout.IsNotFound(errors.New("plain")))
	assert.False(t, checkout.IsConflict(nil))
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	underlying := errors.New("connection refused")
	err := &checkout.TransportError{Method: "GET", URL: "https://api.example.com/orders", Attempts: 4, Err: underlying}

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "after 4 attempt(s)")
}
