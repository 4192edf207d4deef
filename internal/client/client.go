// Package client implements the checkout.Client interface: thin resource
// clients over the internal HTTP pipeline, GET-response caching, and
// conflict-aware creation helpers.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/clubify-io/checkout-client/internal/credentials"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// Client implements checkout.Client.
type Client struct {
	httpClient  *http.Client
	credentials *credentials.Manager
	cache       checkout.Cache
	logger      checkout.Logger

	orders        checkout.OrdersClient
	customers     checkout.CustomersClient
	products      checkout.ProductsClient
	payments      checkout.PaymentsClient
	subscriptions checkout.SubscriptionsClient
	webhooks      checkout.WebhooksClient
}

// New wires the resource clients over an HTTP pipeline and cache.
func New(httpClient *http.Client, manager *credentials.Manager, cache checkout.Cache, logger checkout.Logger) *Client {
	if cache == nil {
		cache = checkout.NewNoOpCache()
	}

	client := &Client{
		httpClient:  httpClient,
		credentials: manager,
		cache:       cache,
		logger:      logger,
	}

	resolver := NewConflictResolver(httpClient)

	client.orders = NewOrdersClient(httpClient, cache, resolver)
	client.customers = NewCustomersClient(httpClient, cache, resolver)
	client.products = NewProductsClient(httpClient, cache)
	client.payments = NewPaymentsClient(httpClient, resolver)
	client.subscriptions = NewSubscriptionsClient(httpClient, cache)
	client.webhooks = NewWebhooksClient(httpClient)

	return client
}

// Credentials exposes the credential manager for context switching.
func (c *Client) Credentials() *credentials.Manager {
	return c.credentials
}

// Orders implements checkout.Client.Orders.
func (c *Client) Orders() checkout.OrdersClient {
	return c.orders
}

// Customers implements checkout.Client.Customers.
func (c *Client) Customers() checkout.CustomersClient {
	return c.customers
}

// Products implements checkout.Client.Products.
func (c *Client) Products() checkout.ProductsClient {
	return c.products
}

// Payments implements checkout.Client.Payments.
func (c *Client) Payments() checkout.PaymentsClient {
	return c.payments
}

// Subscriptions implements checkout.Client.Subscriptions.
func (c *Client) Subscriptions() checkout.SubscriptionsClient {
	return c.subscriptions
}

// Webhooks implements checkout.Client.Webhooks.
func (c *Client) Webhooks() checkout.WebhooksClient {
	return c.webhooks
}

// cacheKey builds the cache key for a GET request.
func cacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}

	return path + "?" + query.Encode()
}

// cachedGet serves a GET from the cache when possible, storing successful
// responses with the given TTL. Cache failures fall through to the network.
func cachedGet(ctx context.Context, httpClient *http.Client, cache checkout.Cache, path string, query url.Values, ttl time.Duration) (*checkout.Response, error) {
	key := cacheKey(path, query)

	entry, err := cache.Get(ctx, key)
	if err == nil && entry != nil {
		return &checkout.Response{StatusCode: 200, Body: entry.Value}, nil
	}

	if err != nil && !errors.Is(err, checkout.ErrCacheMiss) && !errors.Is(err, checkout.ErrCacheDisabled) {
		// Degraded cache backends must not fail reads.
		err = nil
	}

	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	if resp.IsSuccessful() {
		_ = cache.Set(ctx, key, checkout.NewCacheEntry(resp.Body, ttl))
	}

	return resp, nil
}

// prefixDeleter is implemented by backends that can drop query-suffixed
// list keys in one sweep.
type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// invalidate drops the cached entries for a resource after a mutation. On
// backends without prefix deletion, list responses cached under
// query-suffixed keys stay until their TTL elapses.
func invalidate(ctx context.Context, cache checkout.Cache, keys ...string) {
	deleter, canSweep := cache.(prefixDeleter)

	for _, key := range keys {
		if canSweep {
			_ = deleter.DeletePrefix(ctx, key)

			continue
		}

		_ = cache.Delete(ctx, key)
	}
}

// decode surfaces a non-2xx response as a typed error, otherwise unmarshals
// the body into target.
func decode(resp *checkout.Response, target interface{}, action string) error {
	err := checkout.ErrorFromResponse(resp)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	if target == nil {
		return nil
	}

	err = unmarshalBody(resp.Body, target)
	if err != nil {
		return fmt.Errorf("parsing %s response: %w", action, err)
	}

	return nil
}

// unmarshalBody decodes a JSON body. Empty bodies leave target untouched.
func unmarshalBody(body []byte, target interface{}) error {
	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, target)
}
