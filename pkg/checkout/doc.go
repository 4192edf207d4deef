// Package checkout provides types, interfaces, and helpers for working with
// the Clubify Checkout API.
//
// # Overview
//
// The checkout package defines the domain types (e.g., Order, Customer,
// Product, Payment, Subscription, Webhook) and the interfaces for
// resource-oriented clients (e.g., OrdersClient, CustomersClient). A concrete
// implementation of these clients is provided by the clubifyclient package,
// which wires configuration, credential contexts, transport, retries, and
// caching. Most consumers should import clubifyclient to construct a client
// and then interact with the resource client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := clubifyclient.New(ctx, &checkout.Config{
//	    Environment: checkout.EnvironmentSandbox,
//	    APIKey:      "clb_test_0123456789abcdef0123456789abcdef",
//	    TenantID:    "tenant-42",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of orders
//	  orders, err := cli.Orders().List(ctx, &checkout.ListOptions{PerPage: 50})
//	  if err != nil { log.Fatal(err) }
//	  _ = orders
//	}
//
// # Retries
//
// RetryStrategy decides which failures are retried and how long to back off.
// A response outranks a transport error when both exist for an attempt, only
// a fixed set of status codes retries by default, and exponential, linear, or
// fixed backoff policies are available. DefaultRetryStrategy matches the
// platform's documented defaults.
//
// # Errors
//
// API errors are represented by ResponseError and ConflictError. A 409
// response parses into a ConflictError that carries the conflict type, the
// identifier of the pre-existing resource, and endpoints for retrieving it.
// Helpers such as IsNotFound, IsUnauthorized, and IsConflict make it easy to
// branch on common cases.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (logging, metrics,
// header and bearer-token injection) ordered by priority, and a pluggable
// Cache abstraction with in-memory and NATS JetStream KV backends. The
// clubifyclient package composes these pieces for a sensible default client;
// applications with advanced needs can also use these primitives directly.
package checkout
