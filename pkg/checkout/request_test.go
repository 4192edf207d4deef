package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubify-io/checkout-client/pkg/checkout"
)

func TestValidMethod(t *testing.T) {
	t.Parallel()

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"} {
		assert.True(t, checkout.ValidMethod(method), method)
	}

	assert.False(t, checkout.ValidMethod("TRACE"))
	assert.False(t, checkout.ValidMethod("get"))
	assert.False(t, checkout.ValidMethod(""))
}

func TestMethodAllowsBody(t *testing.T) {
	t.Parallel()

	assert.True(t, checkout.MethodAllowsBody("POST"))
	assert.True(t, checkout.MethodAllowsBody("PUT"))
	assert.True(t, checkout.MethodAllowsBody("PATCH"))

	assert.False(t, checkout.MethodAllowsBody("GET"))
	assert.False(t, checkout.MethodAllowsBody("DELETE"))
	assert.False(t, checkout.MethodAllowsBody("HEAD"))
}

func TestResponse_IsSuccessful(t *testing.T) {
	t.Parallel()

	assert.True(t, (&checkout.Response{StatusCode: 200}).IsSuccessful())
	assert.True(t, (&checkout.Response{StatusCode: 204}).IsSuccessful())
	assert.True(t, (&checkout.Response{StatusCode: 299}).IsSuccessful())

	assert.False(t, (&checkout.Response{StatusCode: 199}).IsSuccessful())
	assert.False(t, (&checkout.Response{StatusCode: 300}).IsSuccessful())
	assert.False(t, (&checkout.Response{StatusCode: 404}).IsSuccessful())
}

func TestListOptions_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("nil options encode to nothing", func(t *testing.T) {
		t.Parallel()

		var opts *checkout.ListOptions

		assert.Empty(t, opts.ToValues().Encode())
	})

	t.Run("pages and filters encode together", func(t *testing.T) {
		t.Parallel()

		opts := &checkout.ListOptions{
			Page:    2,
			PerPage: 50,
			Filters: map[string]string{"status": "paid"},
		}

		values := opts.ToValues()
		assert.Equal(t, "2", values.Get("page"))
		assert.Equal(t, "50", values.Get("per_page"))
		assert.Equal(t, "paid", values.Get("status"))
	})

	t.Run("zero values are omitted", func(t *testing.T) {
		t.Parallel()

		opts := &checkout.ListOptions{}

		assert.Empty(t, opts.ToValues().Encode())
	})

	t.Run("oversized pages are clamped", func(t *testing.T) {
		t.Parallel()

		opts := &checkout.ListOptions{PerPage: 5000}

		assert.Equal(t, "100", opts.ToValues().Get("per_page"))
	})

	t.Run("defaults request the first page", func(t *testing.T) {
		t.Parallel()

		values := checkout.DefaultListOptions().ToValues()
		assert.Equal(t, "1", values.Get("page"))
		assert.Equal(t, "25", values.Get("per_page"))
	})
}
