package clubifyclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubify-io/checkout-client/pkg/checkout"
	"github.com/clubify-io/checkout-client/pkg/clubifyclient"
)

const testAPIKey = "clb_test_0123456789abcdef0123456789abcdef"

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := clubifyclient.New(ctx, nil)
		require.ErrorIs(t, err, checkout.ErrConfigRequired)
	})

	t.Run("no base URL and no environment", func(t *testing.T) {
		t.Parallel()

		_, err := clubifyclient.New(ctx, &checkout.Config{APIKey: testAPIKey})
		require.ErrorIs(t, err, checkout.ErrBaseURLRequired)
	})

	t.Run("unknown environment", func(t *testing.T) {
		t.Parallel()

		_, err := clubifyclient.New(ctx, &checkout.Config{
			Environment: "outer-space",
			APIKey:      testAPIKey,
		})
		require.ErrorIs(t, err, checkout.ErrUnknownEnvironment)
	})

	t.Run("no credentials", func(t *testing.T) {
		t.Parallel()

		_, err := clubifyclient.New(ctx, &checkout.Config{
			Environment: checkout.EnvironmentSandbox,
		})
		require.ErrorIs(t, err, checkout.ErrCredentialsRequired)
	})

	t.Run("malformed api key", func(t *testing.T) {
		t.Parallel()

		_, err := clubifyclient.New(ctx, &checkout.Config{
			Environment: checkout.EnvironmentSandbox,
			APIKey:      "clb_test_tooshort",
		})
		require.Error(t, err)

		var authErr *checkout.AuthenticationError
		assert.ErrorAs(t, err, &authErr)
	})
}

func TestNew_RequestWiring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("tenant config sends key and tenant header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get("Authorization"))
			assert.Equal(t, "tenant-42", request.Header.Get("X-Tenant-ID"))

			_ = json.NewEncoder(writer).Encode(checkout.Order{Resource: checkout.Resource{ID: "ord_1"}})
		}))
		defer server.Close()

		cli, err := clubifyclient.New(ctx, &checkout.Config{
			BaseURL:  server.URL,
			APIKey:   testAPIKey,
			TenantID: "tenant-42",
		})
		require.NoError(t, err)

		order, err := cli.Orders().Get(ctx, "ord_1")
		require.NoError(t, err)
		assert.Equal(t, "ord_1", order.ID)
	})

	t.Run("access token config authenticates directly", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer raw-access-token", request.Header.Get("Authorization"))

			_ = json.NewEncoder(writer).Encode(checkout.Customer{Resource: checkout.Resource{ID: "cus_1"}})
		}))
		defer server.Close()

		cli, err := clubifyclient.New(ctx, &checkout.Config{
			BaseURL:     server.URL,
			AccessToken: "raw-access-token",
			Cache:       &checkout.CacheConfig{Type: checkout.CacheTypeNone},
		})
		require.NoError(t, err)

		customer, err := cli.Customers().Get(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", customer.ID)
	})

	t.Run("trailing slash on the base URL is tolerated", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/products/prod_1", request.URL.Path)

			_ = json.NewEncoder(writer).Encode(checkout.Product{Resource: checkout.Resource{ID: "prod_1"}})
		}))
		defer server.Close()

		cli, err := clubifyclient.New(ctx, &checkout.Config{
			BaseURL: server.URL + "/",
			APIKey:  testAPIKey,
		})
		require.NoError(t, err)

		product, err := cli.Products().Get(ctx, "prod_1")
		require.NoError(t, err)
		assert.Equal(t, "prod_1", product.ID)
	})
}

func TestEnvironment_BaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://localhost:8000/api/v1", checkout.EnvironmentDevelopment.BaseURL())
	assert.Equal(t, "https://sandbox.checkout.clubify.app/api/v1", checkout.EnvironmentSandbox.BaseURL())
	assert.Equal(t, "https://staging.checkout.clubify.app/api/v1", checkout.EnvironmentStaging.BaseURL())
	assert.Equal(t, "https://checkout.clubify.app/api/v1", checkout.EnvironmentProduction.BaseURL())
	assert.Empty(t, checkout.Environment("moon").BaseURL())
}
