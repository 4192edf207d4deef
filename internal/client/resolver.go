package client

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// ConflictResolver turns auto-resolvable 409 conflicts into lookups of the
// pre-existing resource instead of failures.
type ConflictResolver struct {
	httpClient *http.Client
}

// NewConflictResolver creates a resolver over the pipeline client.
func NewConflictResolver(httpClient *http.Client) *ConflictResolver {
	return &ConflictResolver{httpClient: httpClient}
}

// Resolve fetches the existing resource a conflict points at, preferring the
// direct retrieval endpoint over the check endpoint. Conflicts outside the
// auto-resolvable whitelist are returned unchanged.
func (r *ConflictResolver) Resolve(ctx context.Context, conflict *checkout.ConflictError) ([]byte, error) {
	if !conflict.IsAutoResolvable() {
		return nil, fmt.Errorf("%w: %s", checkout.ErrConflictNotResolvable, conflict.ConflictType)
	}

	endpoint := conflict.RetrievalEndpoint
	if endpoint == "" {
		endpoint = conflict.CheckEndpoint
	}

	if endpoint == "" {
		return nil, conflict
	}

	resp, err := r.httpClient.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching existing resource: %w", err)
	}

	if !resp.IsSuccessful() {
		// The lookup failed; the original conflict stays authoritative.
		return nil, conflict
	}

	return resp.Body, nil
}

// CheckResourceExists queries a conflict's check endpoint and returns the
// existing resource payload when found.
func (r *ConflictResolver) CheckResourceExists(ctx context.Context, conflict *checkout.ConflictError) (bool, []byte, error) {
	if conflict.CheckEndpoint == "" {
		return false, nil, nil
	}

	resp, err := r.httpClient.Get(ctx, conflict.CheckEndpoint, nil)
	if err != nil {
		return false, nil, fmt.Errorf("checking resource existence: %w", err)
	}

	if resp.StatusCode == nethttp.StatusNotFound {
		return false, nil, nil
	}

	if !resp.IsSuccessful() {
		return false, nil, fmt.Errorf("checking resource existence: %w", checkout.ErrorFromResponse(resp))
	}

	return true, resp.Body, nil
}

// CreateWithConflictResolution POSTs body to path. On a 409, when the
// conflict is auto-resolvable and the caller opted in, the pre-existing
// resource is fetched and returned instead of failing; otherwise the typed
// conflict propagates with its metadata intact.
func (r *ConflictResolver) CreateWithConflictResolution(ctx context.Context, path string, body interface{}, autoResolve bool) ([]byte, error) {
	return r.create(ctx, path, body, "", autoResolve)
}

// CreateIdempotent POSTs body to path with the caller-supplied idempotency
// key. The key is attached once, before the attempt loop, so every retry of
// the same logical call reuses it.
func (r *ConflictResolver) CreateIdempotent(ctx context.Context, path string, body interface{}, idempotencyKey string) ([]byte, error) {
	if idempotencyKey == "" {
		return nil, checkout.ErrIdempotencyKeyEmpty
	}

	return r.create(ctx, path, body, idempotencyKey, false)
}

func (r *ConflictResolver) create(ctx context.Context, path string, body interface{}, idempotencyKey string, autoResolve bool) ([]byte, error) {
	req := &http.Request{
		Method: checkout.MethodPost,
		Path:   path,
		Body:   body,
	}

	if idempotencyKey != "" {
		req.Headers = map[string]string{constants.HeaderIdempotencyKey: idempotencyKey}
	}

	resp, err := r.httpClient.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == nethttp.StatusConflict {
		conflict := checkout.ParseConflictResponse(resp)
		if autoResolve && conflict.IsAutoResolvable() {
			return r.Resolve(ctx, conflict)
		}

		return nil, conflict
	}

	err = checkout.ErrorFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
