package client

import (
	"context"
	"fmt"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// SubscriptionsClient implements checkout.SubscriptionsClient.
type SubscriptionsClient struct {
	httpClient *http.Client
	cache      checkout.Cache
}

// NewSubscriptionsClient creates a new subscriptions client.
func NewSubscriptionsClient(httpClient *http.Client, cache checkout.Cache) *SubscriptionsClient {
	return &SubscriptionsClient{httpClient: httpClient, cache: cache}
}

// Get implements checkout.SubscriptionsClient.Get.
func (c *SubscriptionsClient) Get(ctx context.Context, subscriptionID string) (*checkout.Subscription, error) {
	path := "/subscriptions/" + subscriptionID

	resp, err := cachedGet(ctx, c.httpClient, c.cache, path, nil, constants.SubscriptionsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	var subscription checkout.Subscription

	err = decode(resp, &subscription, "getting subscription")
	if err != nil {
		return nil, err
	}

	return &subscription, nil
}

// List implements checkout.SubscriptionsClient.List.
func (c *SubscriptionsClient) List(ctx context.Context, opts *checkout.ListOptions) (*checkout.ListResponse[checkout.Subscription], error) {
	resp, err := cachedGet(ctx, c.httpClient, c.cache, "/subscriptions", opts.ToValues(), constants.SubscriptionsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	var list checkout.ListResponse[checkout.Subscription]

	err = decode(resp, &list, "listing subscriptions")
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// Create implements checkout.SubscriptionsClient.Create.
func (c *SubscriptionsClient) Create(ctx context.Context, request *checkout.SubscriptionCreateRequest) (*checkout.Subscription, error) {
	resp, err := c.httpClient.Post(ctx, "/subscriptions", request)
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	var subscription checkout.Subscription

	err = decode(resp, &subscription, "creating subscription")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, "/subscriptions")

	return &subscription, nil
}

// Cancel implements checkout.SubscriptionsClient.Cancel.
func (c *SubscriptionsClient) Cancel(ctx context.Context, subscriptionID string) (*checkout.Subscription, error) {
	path := "/subscriptions/" + subscriptionID

	resp, err := c.httpClient.Post(ctx, path+"/cancel", nil)
	if err != nil {
		return nil, fmt.Errorf("canceling subscription: %w", err)
	}

	var subscription checkout.Subscription

	err = decode(resp, &subscription, "canceling subscription")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, path, "/subscriptions")

	return &subscription, nil
}
