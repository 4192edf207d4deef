package client

import (
	"context"
	"fmt"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// OrdersClient implements checkout.OrdersClient.
type OrdersClient struct {
	httpClient *http.Client
	cache      checkout.Cache
	resolver   *ConflictResolver
}

// NewOrdersClient creates a new orders client.
func NewOrdersClient(httpClient *http.Client, cache checkout.Cache, resolver *ConflictResolver) *OrdersClient {
	return &OrdersClient{httpClient: httpClient, cache: cache, resolver: resolver}
}

// Get implements checkout.OrdersClient.Get.
func (c *OrdersClient) Get(ctx context.Context, orderID string) (*checkout.Order, error) {
	path := "/orders/" + orderID

	resp, err := cachedGet(ctx, c.httpClient, c.cache, path, nil, constants.OrdersCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	var order checkout.Order

	err = decode(resp, &order, "getting order")
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// List implements checkout.OrdersClient.List.
func (c *OrdersClient) List(ctx context.Context, opts *checkout.ListOptions) (*checkout.ListResponse[checkout.Order], error) {
	resp, err := cachedGet(ctx, c.httpClient, c.cache, "/orders", opts.ToValues(), constants.OrdersCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	var list checkout.ListResponse[checkout.Order]

	err = decode(resp, &list, "listing orders")
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// Create implements checkout.OrdersClient.Create. The idempotency key is
// forwarded exactly once per logical call; transport retries reuse it.
func (c *OrdersClient) Create(ctx context.Context, request *checkout.OrderCreateRequest, idempotencyKey string) (*checkout.Order, error) {
	body, err := c.resolver.CreateIdempotent(ctx, "/orders", request, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	var order checkout.Order

	err = unmarshalBody(body, &order)
	if err != nil {
		return nil, fmt.Errorf("parsing order response: %w", err)
	}

	invalidate(ctx, c.cache, "/orders")

	return &order, nil
}

// Update implements checkout.OrdersClient.Update.
func (c *OrdersClient) Update(ctx context.Context, orderID string, request *checkout.OrderUpdateRequest) (*checkout.Order, error) {
	path := "/orders/" + orderID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	var order checkout.Order

	err = decode(resp, &order, "updating order")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, path, "/orders")

	return &order, nil
}

// Cancel implements checkout.OrdersClient.Cancel.
func (c *OrdersClient) Cancel(ctx context.Context, orderID string) (*checkout.Order, error) {
	path := "/orders/" + orderID + "/cancel"

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("cancelling order: %w", err)
	}

	var order checkout.Order

	err = decode(resp, &order, "cancelling order")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, "/orders/"+orderID, "/orders")

	return &order, nil
}
