package client

import (
	"context"
	"fmt"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// ProductsClient implements checkout.ProductsClient.
type ProductsClient struct {
	httpClient *http.Client
	cache      checkout.Cache
}

// NewProductsClient creates a new products client.
func NewProductsClient(httpClient *http.Client, cache checkout.Cache) *ProductsClient {
	return &ProductsClient{httpClient: httpClient, cache: cache}
}

// Get implements checkout.ProductsClient.Get.
func (c *ProductsClient) Get(ctx context.Context, productID string) (*checkout.Product, error) {
	path := "/products/" + productID

	resp, err := cachedGet(ctx, c.httpClient, c.cache, path, nil, constants.ProductsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}

	var product checkout.Product

	err = decode(resp, &product, "getting product")
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// List implements checkout.ProductsClient.List.
func (c *ProductsClient) List(ctx context.Context, opts *checkout.ListOptions) (*checkout.ListResponse[checkout.Product], error) {
	resp, err := cachedGet(ctx, c.httpClient, c.cache, "/products", opts.ToValues(), constants.ProductsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	var list checkout.ListResponse[checkout.Product]

	err = decode(resp, &list, "listing products")
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// Create implements checkout.ProductsClient.Create.
func (c *ProductsClient) Create(ctx context.Context, request *checkout.ProductCreateRequest) (*checkout.Product, error) {
	resp, err := c.httpClient.Post(ctx, "/products", request)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	var product checkout.Product

	err = decode(resp, &product, "creating product")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, "/products")

	return &product, nil
}

// Update implements checkout.ProductsClient.Update.
func (c *ProductsClient) Update(ctx context.Context, productID string, request *checkout.ProductUpdateRequest) (*checkout.Product, error) {
	path := "/products/" + productID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	var product checkout.Product

	err = decode(resp, &product, "updating product")
	if err != nil {
		return nil, err
	}

	invalidate(ctx, c.cache, path, "/products")

	return &product, nil
}

// Delete implements checkout.ProductsClient.Delete.
func (c *ProductsClient) Delete(ctx context.Context, productID string) error {
	path := "/products/" + productID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	err = decode(resp, nil, "deleting product")
	if err != nil {
		return err
	}

	invalidate(ctx, c.cache, path, "/products")

	return nil
}
