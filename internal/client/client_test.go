package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubify-io/checkout-client/internal/client"
	checkouthttp "github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// fastRetries keeps retry tests quick.
func fastRetries(maxAttempts int) checkouthttp.Option {
	strategy := checkout.NewRetryStrategy(maxAttempts, time.Millisecond, 5*time.Millisecond, checkout.BackoffFixed)

	return checkouthttp.WithRetryStrategy(strategy)
}

func newClient(t *testing.T, serverURL string) checkout.Client {
	t.Helper()

	cache := checkout.NewMemoryCache(100)
	t.Cleanup(cache.Close)

	httpClient := checkouthttp.NewClient(serverURL, nil, fastRetries(2))

	return client.New(httpClient, nil, cache, nil)
}

func TestClient_CachedReads(t *testing.T) {
	t.Parallel()

	t.Run("second get is served from the cache", func(t *testing.T) {
		t.Parallel()

		var hits int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&hits, 1)
			_ = json.NewEncoder(writer).Encode(checkout.Order{Resource: checkout.Resource{ID: "ord_1"}, Status: "paid"})
		}))
		defer server.Close()

		cli := newClient(t, server.URL)
		ctx := context.Background()

		first, err := cli.Orders().Get(ctx, "ord_1")
		require.NoError(t, err)
		assert.Equal(t, "paid", first.Status)

		second, err := cli.Orders().Get(ctx, "ord_1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("distinct query options miss each other", func(t *testing.T) {
		t.Parallel()

		var hits int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&hits, 1)
			_ = json.NewEncoder(writer).Encode(checkout.ListResponse[checkout.Order]{})
		}))
		defer server.Close()

		cli := newClient(t, server.URL)
		ctx := context.Background()

		_, err := cli.Orders().List(ctx, &checkout.ListOptions{Page: 1})
		require.NoError(t, err)

		_, err = cli.Orders().List(ctx, &checkout.ListOptions{Page: 2})
		require.NoError(t, err)

		assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	})

	t.Run("error responses are not cached", func(t *testing.T) {
		t.Parallel()

		var hits int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if atomic.AddInt32(&hits, 1) == 1 {
				writer.WriteHeader(http.StatusNotFound)

				return
			}

			_ = json.NewEncoder(writer).Encode(checkout.Order{Resource: checkout.Resource{ID: "ord_1"}})
		}))
		defer server.Close()

		cli := newClient(t, server.URL)
		ctx := context.Background()

		_, err := cli.Orders().Get(ctx, "ord_1")
		require.Error(t, err)
		assert.True(t, checkout.IsNotFound(err))

		order, err := cli.Orders().Get(ctx, "ord_1")
		require.NoError(t, err)
		assert.Equal(t, "ord_1", order.ID)
	})

	t.Run("updates invalidate the cached resource", func(t *testing.T) {
		t.Parallel()

		var status atomic.Value

		status.Store("pending")

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodPatch {
				status.Store("shipped")
			}

			current, _ := status.Load().(string)
			_ = json.NewEncoder(writer).Encode(checkout.Order{Resource: checkout.Resource{ID: "ord_1"}, Status: current})
		}))
		defer server.Close()

		cli := newClient(t, server.URL)
		ctx := context.Background()

		before, err := cli.Orders().Get(ctx, "ord_1")
		require.NoError(t, err)
		assert.Equal(t, "pending", before.Status)

		newStatus := "shipped"
		_, err = cli.Orders().Update(ctx, "ord_1", &checkout.OrderUpdateRequest{Status: &newStatus})
		require.NoError(t, err)

		after, err := cli.Orders().Get(ctx, "ord_1")
		require.NoError(t, err)
		assert.Equal(t, "shipped", after.Status)
	})

	t.Run("updates invalidate query-suffixed list keys", func(t *testing.T) {
		t.Parallel()

		var listHits atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodGet && request.URL.Path == "/orders" {
				listHits.Add(1)
				_ = json.NewEncoder(writer).Encode(checkout.ListResponse[checkout.Order]{})

				return
			}

			_ = json.NewEncoder(writer).Encode(checkout.Order{Resource: checkout.Resource{ID: "ord_1"}})
		}))
		defer server.Close()

		cli := newClient(t, server.URL)
		ctx := context.Background()
		opts := &checkout.ListOptions{Page: 2}

		_, err := cli.Orders().List(ctx, opts)
		require.NoError(t, err)

		_, err = cli.Orders().List(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(1), listHits.Load())

		newStatus := "shipped"
		_, err = cli.Orders().Update(ctx, "ord_1", &checkout.OrderUpdateRequest{Status: &newStatus})
		require.NoError(t, err)

		_, err = cli.Orders().List(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(2), listHits.Load())
	})
}

func TestClient_ResourceErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"errors":[{"code":"unauthorized","message":"bad token"}]}`))
	}))
	defer server.Close()

	cli := newClient(t, server.URL)
	ctx := context.Background()

	_, err := cli.Products().Get(ctx, "prod_1")
	require.Error(t, err)
	assert.True(t, checkout.IsUnauthorized(err))

	_, err = cli.Webhooks().List(ctx, nil)
	require.Error(t, err)
	assert.True(t, checkout.IsUnauthorized(err))

	err = cli.Customers().Delete(ctx, "cus_1")
	require.Error(t, err)
	assert.True(t, checkout.IsUnauthorized(err))
}

func TestClient_Webhooks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodPost:
			var body checkout.WebhookCreateRequest

			_ = json.NewDecoder(request.Body).Decode(&body)

			writer.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(writer).Encode(checkout.Webhook{
				Resource: checkout.Resource{ID: "wh_1"},
				URL:      body.URL,
				Events:   body.Events,
			})
		case request.Method == http.MethodDelete:
			writer.WriteHeader(http.StatusNoContent)
		default:
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(checkout.Webhook{Resource: checkout.Resource{ID: "wh_1"}})
		}
	}))
	defer server.Close()

	cli := newClient(t, server.URL)
	ctx := context.Background()

	created, err := cli.Webhooks().Create(ctx, &checkout.WebhookCreateRequest{
		URL:    "https://hooks.example.com/checkout",
		Events: []string{"order.paid"},
	})
	require.NoError(t, err)
	assert.Equal(t, "wh_1", created.ID)
	assert.Equal(t, []string{"order.paid"}, created.Events)

	require.NoError(t, cli.Webhooks().Delete(ctx, "wh_1"))
}

func TestClient_WebhookTestDelivery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/webhooks/wh_1/test", request.URL.Path)

		writer.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(writer).Encode(checkout.WebhookDelivery{
			WebhookID:  "wh_1",
			StatusCode: 200,
			Success:    true,
		})
	}))
	defer server.Close()

	cli := newClient(t, server.URL)

	delivery, err := cli.Webhooks().TestDelivery(context.Background(), "wh_1")
	require.NoError(t, err)
	assert.Equal(t, "wh_1", delivery.WebhookID)
	assert.True(t, delivery.Success)
	assert.Equal(t, 200, delivery.StatusCode)
}
