// Package clubifyclient provides the main entry point for creating Clubify
// Checkout API clients.
package clubifyclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/clubify-io/checkout-client/internal/client"
	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/internal/credentials"
	"github.com/clubify-io/checkout-client/internal/http"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// New creates a new Clubify Checkout API client from config.
func New(ctx context.Context, config *checkout.Config) (checkout.Client, error) {
	if config == nil {
		return nil, checkout.ErrConfigRequired
	}

	baseURL, err := resolveBaseURL(config)
	if err != nil {
		return nil, err
	}

	if config.APIKey == "" && config.AccessToken == "" {
		return nil, checkout.ErrCredentialsRequired
	}

	manager, err := buildCredentialManager(config)
	if err != nil {
		return nil, err
	}

	cache, err := checkout.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("building cache: %w", err)
	}

	var tokenProvider http.TokenProvider = manager
	if manager.CurrentCredentials().Token() == "" {
		// Token-only configs carry no storable context; the raw access
		// token authenticates requests directly.
		tokenProvider = staticTokenProvider(config.AccessToken)
	}

	httpClient := http.NewClient(baseURL, tokenProvider, httpOptions(config)...)

	return client.New(httpClient, manager, cache, config.Logger), nil
}

// staticTokenProvider serves a fixed bearer token.
type staticTokenProvider string

func (p staticTokenProvider) GetToken(ctx context.Context) (string, error) {
	return string(p), nil
}

// resolveBaseURL picks the explicit base URL when set, otherwise the
// environment's. Trailing slashes are stripped and a missing scheme defaults
// to https.
func resolveBaseURL(config *checkout.Config) (string, error) {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")

	if baseURL == "" {
		if config.Environment == "" {
			return "", checkout.ErrBaseURLRequired
		}

		baseURL = config.Environment.BaseURL()
		if baseURL == "" {
			return "", fmt.Errorf("%w: %q", checkout.ErrUnknownEnvironment, config.Environment)
		}

		return baseURL, nil
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL, nil
}

// buildCredentialManager seeds a memory-backed manager with the context the
// config describes and makes it active. A tenant ID yields a tenant context;
// otherwise the credentials become the super-admin context.
func buildCredentialManager(config *checkout.Config) (*credentials.Manager, error) {
	var opts []credentials.Option
	if config.Logger != nil {
		opts = append(opts, credentials.WithLogger(config.Logger))
	}

	manager := credentials.NewManager(credentials.NewMemoryStorage(), opts...)

	var contextID string

	switch {
	case config.TenantID != "":
		err := manager.AddTenantContext(config.TenantID, credentials.TenantCredentials{
			APIKey:      config.APIKey,
			AccessToken: config.AccessToken,
		})
		if err != nil {
			return nil, err
		}

		contextID = config.TenantID

	case config.APIKey != "":
		err := manager.AddSuperAdminContext(credentials.SuperAdminCredentials{
			APIKey: config.APIKey,
		})
		if err != nil {
			return nil, err
		}

		contextID = string(credentials.TypeSuperAdmin)

		if config.AccessToken != "" {
			err = manager.UpdateContextTokens(contextID, config.AccessToken, "")
			if err != nil {
				return nil, err
			}
		}
	default:
		// Access-token-only configs run on the unbacked default context.
		return manager, nil
	}

	err := manager.SwitchContext(contextID)
	if err != nil {
		return nil, err
	}

	return manager, nil
}

// httpOptions translates config into pipeline options.
func httpOptions(config *checkout.Config) []http.Option {
	opts := []http.Option{
		http.WithRetryStrategy(retryStrategy(config)),
	}

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.TenantID != "" {
		opts = append(opts, http.WithTenantID(config.TenantID))
	}

	if config.Timeout > 0 {
		opts = append(opts, http.WithTimeout(config.Timeout))
	}

	return opts
}

// retryStrategy builds the retry strategy from config, falling back to the
// documented defaults field by field.
func retryStrategy(config *checkout.Config) *checkout.RetryStrategy {
	maxAttempts := config.RetryMax
	if maxAttempts == 0 {
		maxAttempts = constants.DefaultRetryMax
	}

	baseDelay := config.RetryBaseDelay
	if baseDelay == 0 {
		baseDelay = constants.DefaultRetryBaseDelay
	}

	maxDelay := config.RetryMaxDelay
	if maxDelay == 0 {
		maxDelay = constants.DefaultRetryWaitMax
	}

	backoff := config.RetryBackoff
	if backoff == "" {
		backoff = checkout.BackoffExponential
	}

	return checkout.NewRetryStrategy(maxAttempts, baseDelay, maxDelay, backoff)
}
