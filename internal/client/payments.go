package client

import (
	"context"
	"fmt"

	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// PaymentsClient implements checkout.PaymentsClient. Payment responses are
// never cached.
type PaymentsClient struct {
	httpClient *http.Client
	resolver   *ConflictResolver
}

// NewPaymentsClient creates a new payments client.
func NewPaymentsClient(httpClient *http.Client, resolver *ConflictResolver) *PaymentsClient {
	return &PaymentsClient{httpClient: httpClient, resolver: resolver}
}

// Get implements checkout.PaymentsClient.Get.
func (c *PaymentsClient) Get(ctx context.Context, paymentID string) (*checkout.Payment, error) {
	resp, err := c.httpClient.Get(ctx, "/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting payment: %w", err)
	}

	var payment checkout.Payment

	err = decode(resp, &payment, "getting payment")
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// Create implements checkout.PaymentsClient.Create. The idempotency key is
// required so a retried charge cannot be captured twice.
func (c *PaymentsClient) Create(ctx context.Context, request *checkout.PaymentCreateRequest, idempotencyKey string) (*checkout.Payment, error) {
	body, err := c.resolver.CreateIdempotent(ctx, "/payments", request, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	var payment checkout.Payment

	err = unmarshalBody(body, &payment)
	if err != nil {
		return nil, fmt.Errorf("parsing payment response: %w", err)
	}

	return &payment, nil
}

// Refund implements checkout.PaymentsClient.Refund.
func (c *PaymentsClient) Refund(ctx context.Context, paymentID string, request *checkout.RefundRequest) (*checkout.Payment, error) {
	resp, err := c.httpClient.Post(ctx, "/payments/"+paymentID+"/refund", request)
	if err != nil {
		return nil, fmt.Errorf("refunding payment: %w", err)
	}

	var payment checkout.Payment

	err = decode(resp, &payment, "refunding payment")
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
