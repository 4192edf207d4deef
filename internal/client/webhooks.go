package client

import (
	"context"
	"fmt"

	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// WebhooksClient implements checkout.WebhooksClient. Webhook configuration
// is read rarely and must always be fresh, so nothing is cached.
type WebhooksClient struct {
	httpClient *http.Client
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(httpClient *http.Client) *WebhooksClient {
	return &WebhooksClient{httpClient: httpClient}
}

// Get implements checkout.WebhooksClient.Get.
func (c *WebhooksClient) Get(ctx context.Context, webhookID string) (*checkout.Webhook, error) {
	resp, err := c.httpClient.Get(ctx, "/webhooks/"+webhookID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting webhook: %w", err)
	}

	var webhook checkout.Webhook

	err = decode(resp, &webhook, "getting webhook")
	if err != nil {
		return nil, err
	}

	return &webhook, nil
}

// List implements checkout.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context, opts *checkout.ListOptions) (*checkout.ListResponse[checkout.Webhook], error) {
	resp, err := c.httpClient.Get(ctx, "/webhooks", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	var list checkout.ListResponse[checkout.Webhook]

	err = decode(resp, &list, "listing webhooks")
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// Create implements checkout.WebhooksClient.Create.
func (c *WebhooksClient) Create(ctx context.Context, request *checkout.WebhookCreateRequest) (*checkout.Webhook, error) {
	resp, err := c.httpClient.Post(ctx, "/webhooks", request)
	if err != nil {
		return nil, fmt.Errorf("creating webhook: %w", err)
	}

	var webhook checkout.Webhook

	err = decode(resp, &webhook, "creating webhook")
	if err != nil {
		return nil, err
	}

	return &webhook, nil
}

// Update implements checkout.WebhooksClient.Update.
func (c *WebhooksClient) Update(ctx context.Context, webhookID string, request *checkout.WebhookUpdateRequest) (*checkout.Webhook, error) {
	resp, err := c.httpClient.Put(ctx, "/webhooks/"+webhookID, request)
	if err != nil {
		return nil, fmt.Errorf("updating webhook: %w", err)
	}

	var webhook checkout.Webhook

	err = decode(resp, &webhook, "updating webhook")
	if err != nil {
		return nil, err
	}

	return &webhook, nil
}

// TestDelivery implements checkout.WebhooksClient.TestDelivery.
func (c *WebhooksClient) TestDelivery(ctx context.Context, webhookID string) (*checkout.WebhookDelivery, error) {
	resp, err := c.httpClient.Post(ctx, "/webhooks/"+webhookID+"/test", nil)
	if err != nil {
		return nil, fmt.Errorf("testing webhook delivery: %w", err)
	}

	var delivery checkout.WebhookDelivery

	err = decode(resp, &delivery, "testing webhook delivery")
	if err != nil {
		return nil, err
	}

	return &delivery, nil
}

// Delete implements checkout.WebhooksClient.Delete.
func (c *WebhooksClient) Delete(ctx context.Context, webhookID string) error {
	resp, err := c.httpClient.Delete(ctx, "/webhooks/"+webhookID)
	if err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}

	return decode(resp, nil, "deleting webhook")
}
