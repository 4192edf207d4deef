package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubify-io/checkout-client/pkg/checkout"
)

func TestConflictError_EmailExists(t *testing.T) {
	t.Parallel()

	conflict := checkout.EmailExists("a@b.com", "id123")

	assert.Equal(t, checkout.ConflictEmailExists, conflict.ConflictType)
	assert.Equal(t, []string{"email"}, conflict.ConflictFields)
	assert.Equal(t, "id123", conflict.ExistingResourceID)
	assert.True(t, conflict.IsAutoResolvable())
	assert.Equal(t, 409, conflict.StatusCode())
	assert.Equal(t, "/customers/check-email?email=a%40b.com", conflict.CheckEndpoint)
	assert.Equal(t, "/customers/id123", conflict.RetrievalEndpoint)
}

func TestConflictError_ToMap(t *testing.T) {
	t.Parallel()

	t.Run("full conflict serializes to its wire shape", func(t *testing.T) {
		t.Parallel()

		payload := checkout.EmailExists("a@b.com", "id123").ToMap()

		assert.Equal(t, "conflict", payload["type"])
		assert.Equal(t, 409, payload["status_code"])
		assert.Equal(t, "email_exists", payload["conflict_type"])
		assert.Equal(t, true, payload["auto_resolvable"])
		assert.Equal(t, true, payload["idempotency_supported"])
		assert.Equal(t, "id123", payload["existing_resource_id"])
		assert.Equal(t, "/customers/check-email?email=a%40b.com", payload["check_endpoint"])
	})

	t.Run("missing endpoints serialize as nil", func(t *testing.T) {
		t.Parallel()

		payload := checkout.EmailExists("a@b.com", "").ToMap()

		assert.Nil(t, payload["existing_resource_id"])
		assert.Nil(t, payload["retrieval_endpoint"])
	})
}

func TestConflictError_AutoResolvable(t *testing.T) {
	t.Parallel()

	resolvable := []*checkout.ConflictError{
		checkout.EmailExists("a@b.com", ""),
		checkout.DomainExists("shop.example.com", ""),
		checkout.SubdomainExists("shop", ""),
		checkout.UserExists("operator", ""),
		checkout.TenantExists("acme", ""),
	}
	for _, conflict := range resolvable {
		assert.True(t, conflict.IsAutoResolvable(), string(conflict.ConflictType))
	}

	orderConflict := &checkout.ConflictError{ConflictType: checkout.ConflictOrderExists}
	assert.False(t, orderConflict.IsAutoResolvable())

	unknownConflict := &checkout.ConflictError{ConflictType: "something_new"}
	assert.False(t, unknownConflict.IsAutoResolvable())
}

func TestParseConflictResponse(t *testing.T) {
	t.Parallel()

	t.Run("decodes a structured 409 body", func(t *testing.T) {
		t.Parallel()

		body := `{
			"message": "email already registered",
			"conflict_type": "email_exists",
			"conflict_fields": ["email"],
			"existing_resource_id": "cus_42",
			"check_endpoint": "/customers/check-email?email=a%40b.com",
			"retrieval_endpoint": "/customers/cus_42"
		}`

		conflict := checkout.ParseConflictResponse(&checkout.Response{StatusCode: 409, Body: []byte(body)})
		require.NotNil(t, conflict)

		assert.Equal(t, checkout.ConflictEmailExists, conflict.ConflictType)
		assert.Equal(t, "cus_42", conflict.ExistingResourceID)
		assert.Equal(t, "/customers/cus_42", conflict.RetrievalEndpoint)
		assert.True(t, conflict.IsAutoResolvable())
	})

	t.Run("keeps the raw message when the body is not JSON", func(t *testing.T) {
		t.Parallel()

		conflict := checkout.ParseConflictResponse(&checkout.Response{StatusCode: 409, Body: []byte("duplicate")})
		require.NotNil(t, conflict)

		assert.Equal(t, "duplicate", conflict.Message)
		assert.False(t, conflict.IsAutoResolvable())
	})
}
