package checkout

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/clubify-io/checkout-client/internal/constants"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.3.0"

// DefaultUserAgent is sent unless Config.UserAgent overrides it.
const DefaultUserAgent = "clubify-checkout-go/" + Version

// Environment selects a hosted checkout deployment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentSandbox     Environment = "sandbox"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// BaseURL returns the API base URL for the environment, or "" for an unknown
// one.
func (e Environment) BaseURL() string {
	switch e {
	case EnvironmentDevelopment:
		return "http://localhost:8000/api/v1"
	case EnvironmentSandbox:
		return "https://sandbox.checkout.clubify.app/api/v1"
	case EnvironmentStaging:
		return "https://staging.checkout.clubify.app/api/v1"
	case EnvironmentProduction:
		return "https://checkout.clubify.app/api/v1"
	default:
		return ""
	}
}

// Logger is the structured logging interface consumed throughout the SDK.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a checkout.Client via
// the clubifyclient package.
type Config struct {
	// Environment selects the deployment; ignored when BaseURL is set.
	Environment Environment
	// BaseURL overrides the environment's base URL.
	BaseURL string

	// APIKey authenticates requests. Super-admin and tenant keys share the
	// clb_(test|live)_<32 hex> format.
	APIKey string
	// AccessToken is used directly as a Bearer token when set.
	AccessToken string
	// TenantID scopes requests via the X-Tenant-ID header.
	TenantID string

	// Timeout bounds each transport attempt. Zero means the default.
	Timeout time.Duration
	// RetryMax is the number of retries after the initial try.
	RetryMax int
	// RetryBaseDelay is the backoff delay unit.
	RetryBaseDelay time.Duration
	// RetryMaxDelay caps backoff delays.
	RetryMaxDelay time.Duration
	// RetryBackoff selects the backoff policy; defaults to exponential.
	RetryBackoff BackoffKind

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is the optional structured logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Cache configures GET-response caching; nil uses the default memory
	// cache.
	Cache *CacheConfig
}

// Client is the top-level SDK surface. The concrete implementation is built
// by the clubifyclient package.
type Client interface {
	Orders() OrdersClient
	Customers() CustomersClient
	Products() ProductsClient
	Payments() PaymentsClient
	Subscriptions() SubscriptionsClient
	Webhooks() WebhooksClient
}

// OrdersClient manages checkout orders.
type OrdersClient interface {
	Get(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, opts *ListOptions) (*ListResponse[Order], error)
	// Create threads idempotencyKey through X-Idempotency-Key so retries
	// cannot duplicate the order.
	Create(ctx context.Context, request *OrderCreateRequest, idempotencyKey string) (*Order, error)
	Update(ctx context.Context, orderID string, request *OrderUpdateRequest) (*Order, error)
	Cancel(ctx context.Context, orderID string) (*Order, error)
}

// CustomersClient manages customers.
type CustomersClient interface {
	Get(ctx context.Context, customerID string) (*Customer, error)
	List(ctx context.Context, opts *ListOptions) (*ListResponse[Customer], error)
	// Create resolves email_exists conflicts by fetching the existing
	// customer when autoResolve is true.
	Create(ctx context.Context, request *CustomerCreateRequest, autoResolve bool) (*Customer, error)
	Update(ctx context.Context, customerID string, request *CustomerUpdateRequest) (*Customer, error)
	Delete(ctx context.Context, customerID string) error
}

// ProductsClient manages products and offers.
type ProductsClient interface {
	Get(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, opts *ListOptions) (*ListResponse[Product], error)
	Create(ctx context.Context, request *ProductCreateRequest) (*Product, error)
	Update(ctx context.Context, productID string, request *ProductUpdateRequest) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

// PaymentsClient manages payments and refunds.
type PaymentsClient interface {
	Get(ctx context.Context, paymentID string) (*Payment, error)
	// Create threads idempotencyKey so a retried charge is safe.
	Create(ctx context.Context, request *PaymentCreateRequest, idempotencyKey string) (*Payment, error)
	Refund(ctx context.Context, paymentID string, request *RefundRequest) (*Payment, error)
}

// SubscriptionsClient manages recurring subscriptions.
type SubscriptionsClient interface {
	Get(ctx context.Context, subscriptionID string) (*Subscription, error)
	List(ctx context.Context, opts *ListOptions) (*ListResponse[Subscription], error)
	Create(ctx context.Context, request *SubscriptionCreateRequest) (*Subscription, error)
	Cancel(ctx context.Context, subscriptionID string) (*Subscription, error)
}

// WebhooksClient manages webhook endpoints.
type WebhooksClient interface {
	Get(ctx context.Context, webhookID string) (*Webhook, error)
	List(ctx context.Context, opts *ListOptions) (*ListResponse[Webhook], error)
	Create(ctx context.Context, request *WebhookCreateRequest) (*Webhook, error)
	Update(ctx context.Context, webhookID string, request *WebhookUpdateRequest) (*Webhook, error)
	Delete(ctx context.Context, webhookID string) error
	// TestDelivery asks the platform to fire a synthetic event at the
	// webhook endpoint and reports the outcome.
	TestDelivery(ctx context.Context, webhookID string) (*WebhookDelivery, error)
}

// ListOptions expresses common list query options.
type ListOptions struct {
	Page    int
	PerPage int
	Filters map[string]string
}

// DefaultListOptions returns options for the first page at the default
// page size.
func DefaultListOptions() *ListOptions {
	return &ListOptions{Page: 1, PerPage: constants.DefaultPageSize}
}

// ToValues encodes the options as URL query values. PerPage is clamped to
// the largest page the API accepts.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}

	if o.PerPage > 0 {
		perPage := o.PerPage
		if perPage > constants.MaxPageSize {
			perPage = constants.MaxPageSize
		}

		values.Set("per_page", strconv.Itoa(perPage))
	}

	for key, value := range o.Filters {
		values.Set(key, value)
	}

	return values
}
