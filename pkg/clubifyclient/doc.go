// Package clubifyclient provides the primary entry point for constructing a
// Clubify Checkout API client that implements the checkout.Client interface.
//
// It layers configuration, credential contexts, HTTP transport with retries,
// and response caching on top of the resource interfaces and types defined in
// the checkout package. Most applications should import clubifyclient to
// build a client, then use the returned checkout.Client to access
// resource-specific clients, for example Orders(), Customers(), Payments().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/clubify-io/checkout-client/pkg/checkout"
//	  "github.com/clubify-io/checkout-client/pkg/clubifyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Tenant credentials: requests carry X-Tenant-ID automatically.
//	  cli, err := clubifyclient.New(ctx, &checkout.Config{
//	    Environment: checkout.EnvironmentSandbox,
//	    APIKey:      "clb_test_0123456789abcdef0123456789abcdef",
//	    TenantID:    "tenant-42",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = clubifyclient.New(ctx, &checkout.Config{
//	    BaseURL:     "https://checkout.clubify.app/api/v1",
//	    AccessToken: "eyJhbGciOi...", // bearer token
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  order, err := cli.Orders().Get(ctx, "ord_123")
//	  if err != nil { log.Fatal(err) }
//	  _ = order
//	}
//
// # Environments
//
// Config.Environment selects a hosted deployment (development, sandbox,
// staging, production); Config.BaseURL overrides it for self-hosted or
// proxied setups. One of the two must be set.
package clubifyclient
