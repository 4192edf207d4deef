package checkout

import (
	"time"
)

// Resource is the base structure shared by all API resources.
type Resource struct {
	ID        string    `json:"id"         yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Pagination represents pagination information.
type Pagination struct {
	TotalResults int `json:"total_results" yaml:"total_results"`
	TotalPages   int `json:"total_pages"   yaml:"total_pages"`
	Page         int `json:"page"          yaml:"page"`
	PerPage      int `json:"per_page"      yaml:"per_page"`
}

// ListResponse represents a paginated list response.
type ListResponse[T any] struct {
	Pagination Pagination `json:"pagination" yaml:"pagination"`
	Items      []T        `json:"items"      yaml:"items"`
}

// Order represents a checkout order.
type Order struct {
	Resource

	CustomerID string            `json:"customer_id"        yaml:"customer_id"`
	Status     string            `json:"status"             yaml:"status"`
	Currency   string            `json:"currency"           yaml:"currency"`
	TotalCents int64             `json:"total_cents"        yaml:"total_cents"`
	Items      []OrderItem       `json:"items"              yaml:"items"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID      string `json:"product_id"       yaml:"product_id"`
	Quantity       int    `json:"quantity"         yaml:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents" yaml:"unit_price_cents"`
}

// OrderCreateRequest represents a request to create an order.
type OrderCreateRequest struct {
	CustomerID string            `json:"customer_id"        yaml:"customer_id"`
	Currency   string            `json:"currency"           yaml:"currency"`
	Items      []OrderItem       `json:"items"              yaml:"items"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OrderUpdateRequest represents a request to update an order. Nil fields are
// left unchanged.
type OrderUpdateRequest struct {
	Status   *string           `json:"status,omitempty"   yaml:"status,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Customer represents a checkout customer.
type Customer struct {
	Resource

	Name     string `json:"name"               yaml:"name"`
	Email    string `json:"email"              yaml:"email"`
	Phone    string `json:"phone,omitempty"    yaml:"phone,omitempty"`
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
	TenantID string `json:"tenant_id"          yaml:"tenant_id"`
}

// CustomerCreateRequest represents a request to create a customer.
type CustomerCreateRequest struct {
	Name     string `json:"name"               yaml:"name"`
	Email    string `json:"email"              yaml:"email"`
	Phone    string `json:"phone,omitempty"    yaml:"phone,omitempty"`
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
}

// CustomerUpdateRequest represents a request to update a customer.
type CustomerUpdateRequest struct {
	Name  *string `json:"name,omitempty"  yaml:"name,omitempty"`
	Phone *string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Product represents a sellable product.
type Product struct {
	Resource

	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"           yaml:"price_cents"`
	Currency    string `json:"currency"              yaml:"currency"`
	Active      bool   `json:"active"                yaml:"active"`
}

// ProductCreateRequest represents a request to create a product.
type ProductCreateRequest struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"           yaml:"price_cents"`
	Currency    string `json:"currency"              yaml:"currency"`
}

// ProductUpdateRequest represents a request to update a product.
type ProductUpdateRequest struct {
	Name        *string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty" yaml:"price_cents,omitempty"`
	Active      *bool   `json:"active,omitempty"      yaml:"active,omitempty"`
}

// Payment represents a payment attached to an order.
type Payment struct {
	Resource

	OrderID     string `json:"order_id"     yaml:"order_id"`
	Status      string `json:"status"       yaml:"status"`
	Method      string `json:"method"       yaml:"method"`
	AmountCents int64  `json:"amount_cents" yaml:"amount_cents"`
	Currency    string `json:"currency"     yaml:"currency"`
}

// PaymentCreateRequest represents a request to charge an order.
type PaymentCreateRequest struct {
	OrderID     string `json:"order_id"     yaml:"order_id"`
	Method      string `json:"method"       yaml:"method"`
	AmountCents int64  `json:"amount_cents" yaml:"amount_cents"`
	Currency    string `json:"currency"     yaml:"currency"`
}

// RefundRequest represents a full or partial refund.
type RefundRequest struct {
	AmountCents int64  `json:"amount_cents"     yaml:"amount_cents"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Subscription represents a recurring subscription.
type Subscription struct {
	Resource

	CustomerID       string    `json:"customer_id"        yaml:"customer_id"`
	PlanID           string    `json:"plan_id"            yaml:"plan_id"`
	Status           string    `json:"status"             yaml:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end" yaml:"current_period_end"`
}

// SubscriptionCreateRequest represents a request to create a subscription.
type SubscriptionCreateRequest struct {
	CustomerID string `json:"customer_id" yaml:"customer_id"`
	PlanID     string `json:"plan_id"     yaml:"plan_id"`
}

// Webhook represents a webhook endpoint registration.
type Webhook struct {
	Resource

	URL    string   `json:"url"              yaml:"url"`
	Events []string `json:"events"           yaml:"events"`
	Secret string   `json:"secret,omitempty" yaml:"secret,omitempty"`
	Active bool     `json:"active"           yaml:"active"`
}

// WebhookDelivery reports the outcome of a test delivery to a webhook
// endpoint.
type WebhookDelivery struct {
	WebhookID  string `json:"webhook_id"      yaml:"webhook_id"`
	StatusCode int    `json:"status_code"     yaml:"status_code"`
	Success    bool   `json:"success"         yaml:"success"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// WebhookCreateRequest represents a request to register a webhook.
type WebhookCreateRequest struct {
	URL    string   `json:"url"    yaml:"url"`
	Events []string `json:"events" yaml:"events"`
}

// WebhookUpdateRequest represents a request to update a webhook.
type WebhookUpdateRequest struct {
	URL    *string  `json:"url,omitempty"    yaml:"url,omitempty"`
	Events []string `json:"events,omitempty" yaml:"events,omitempty"`
	Active *bool    `json:"active,omitempty" yaml:"active,omitempty"`
}
