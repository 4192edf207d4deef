package client

import (
	"context"
	"fmt"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// CustomersClient implements checkout.CustomersClient.
type CustomersClient struct {
	httpClient *http.Client
	cache      checkout.Cache
	resolver   *ConflictResolver
}

// NewCustomersClient creates a new customers client.
func NewCustomersClient(httpClient *http.Client, cache checkout.Cache, resolver *ConflictResolver) *CustomersClient {
	return &CustomersClient{httpClient: httpClient, cache: cache, resolver: resolver}
}

// Get implements checkout.CustomersClient.Get.
func (c *CustomersClient) Get(ctx context.Context, customerID string) (*checkout.Customer, error) {
	path := "/customers/" + customerID

	resp, err := cachedGet(ctx, c.httpClient, c.cache, path, nil, constants.CustomersCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}

	var customer checkout.Customer

	err = decode(resp, &customer, "getting customer")
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

// List implements checkout.CustomersClient.List.
func (c *CustomersClient) List(ctx context.Context, opts *checkout.ListOptions) (*checkout.ListResponse[checkout.Customer], error) {
	resp, err := cachedGet(ctx, c.httpClient, c.cache, "/customers", opts.ToValues(), constants.CustomersCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	var list checkout.ListResponse[checkout.Customer]

	err = decode(resp, &list, "listing customers")
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// Create implements checkout.CustomersClient.Create. When autoResolve is
// true, an email_exists conflict yields the pre-existing customer instead of
// an error.
func (c *CustomersClient) Create(ctx context.Context, request *checkout.CustomerCreateRequest, autoResolve bool) (*checkout.Customer, error) {
	if request.Email == "" {
		return nil, &checkout.ValidationError{Field: "email", Message: "must not be empty"}
	}

	body, err := c.resolver.CreateWithConflictResolution(ctx, "/customers", request, autoResolve)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	var customer checkout.Customer

	err = unmarshalBody(body, &customer)
	if err != nil {
		return nil, fmt.Errorf("parsing customer response: %w", err)
	}

	invalidate(ctx, c.cache, "/customers")

	return &customer, nil
}

// Update implements checkout.CustomersClient.Update.
func (c *CustomersClient) Update(ctx context.Context, customerID string, request *checkout.CustomerUpdateRequest) (*checkout.Customer, error) {
	path := "/customers/" + customerID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}

	var customer checkout.Customer

	err = decode(resp, &customer, "updating customer")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, path, "/customers")

	return &customer, nil
}

// Delete implements checkout.CustomersClient.Delete.
func (c *CustomersClient) Delete(ctx context.Context, customerID string) error {
	path := "/customers/" + customerID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	err = decode(resp, nil, "deleting customer")
	if err != nil {
		return err
	}

	invalidate(ctx, c.cache, path, "/customers")

	return nil
}
