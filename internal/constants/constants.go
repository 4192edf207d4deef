package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortTimeout bounds quick network operations, like cache dials.
	ShortTimeout = 10 * time.Second
)

// Retry defaults.
const (
	// DefaultRetryMax is the default number of retries after the initial try.
	DefaultRetryMax = 3

	// DefaultRetryBaseDelay is the default delay unit for backoff.
	DefaultRetryBaseDelay = 1 * time.Second

	// DefaultRetryWaitMax caps the delay between retries.
	DefaultRetryWaitMax = 30 * time.Second

	// MaxBackoffShift bounds the exponent used by exponential backoff so the
	// shift cannot overflow.
	MaxBackoffShift = 32
)

// Cache defaults.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheCleanupInterval is how often expired entries are swept.
	DefaultCacheCleanupInterval = 1 * time.Minute

	// ProductsCacheTTL is the TTL for product reads.
	ProductsCacheTTL = 10 * time.Minute

	// OrdersCacheTTL is the TTL for order reads.
	OrdersCacheTTL = 30 * time.Second

	// CustomersCacheTTL is the TTL for customer reads.
	CustomersCacheTTL = 2 * time.Minute

	// SubscriptionsCacheTTL is the TTL for subscription reads. Subscription
	// state changes on billing events, so it stays as short as orders.
	SubscriptionsCacheTTL = 30 * time.Second
)

// Credential store defaults.
const (
	// DefaultContextID is the reserved active-context sentinel. It may have
	// no backing entry in the store.
	DefaultContextID = "default"
)

// Pagination defaults.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	// MaxPageSize is the largest page the API accepts.
	MaxPageSize = 100
)

// Header names used by the request pipeline.
const (
	// HeaderTenantID scopes a request to a tenant.
	HeaderTenantID = "X-Tenant-ID"

	// HeaderIdempotencyKey makes repeated creation calls safe to retry.
	HeaderIdempotencyKey = "X-Idempotency-Key"

	// HeaderRequestID correlates request logs across systems.
	HeaderRequestID = "X-Request-ID"
)
