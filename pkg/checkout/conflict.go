package checkout

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ConflictType identifies what kind of uniqueness violation the API reported.
type ConflictType string

const (
	ConflictEmailExists     ConflictType = "email_exists"
	ConflictDomainExists    ConflictType = "domain_exists"
	ConflictSubdomainExists ConflictType = "subdomain_exists"
	ConflictUserExists      ConflictType = "user_exists"
	ConflictTenantExists    ConflictType = "tenant_exists"
	ConflictOrderExists     ConflictType = "order_exists"
)

// autoResolvableConflicts lists conflict types for which a deterministic
// existing-resource lookup can substitute for failure.
var autoResolvableConflicts = map[ConflictType]struct{}{
	ConflictEmailExists:     {},
	ConflictDomainExists:    {},
	ConflictSubdomainExists: {},
	ConflictUserExists:      {},
	ConflictTenantExists:    {},
}

// ConflictError is the typed error for an HTTP 409 from the API. It carries
// enough metadata for a resolver to fetch the pre-existing resource instead
// of failing.
type ConflictError struct {
	Message               string                 `json:"message"`
	ConflictType          ConflictType           `json:"conflict_type"`
	ConflictFields        []string               `json:"conflict_fields"`
	ExistingValues        map[string]interface{} `json:"existing_values"`
	ExistingResourceID    string                 `json:"existing_resource_id"`
	ResolutionSuggestions []string               `json:"resolution_suggestions"`
	CheckEndpoint         string                 `json:"check_endpoint"`
	RetrievalEndpoint     string                 `json:"retrieval_endpoint"`
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("conflict (%s): %s", e.ConflictType, e.Message)
	}

	return fmt.Sprintf("conflict (%s) on fields %v", e.ConflictType, e.ConflictFields)
}

// StatusCode always reports 409.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// IsAutoResolvable reports whether a resolver may substitute the existing
// resource for the failed creation.
func (e *ConflictError) IsAutoResolvable() bool {
	_, ok := autoResolvableConflicts[e.ConflictType]

	return ok
}

// ToMap serializes the conflict into its wire format.
func (e *ConflictError) ToMap() map[string]interface{} {
	var checkEndpoint, retrievalEndpoint interface{}
	if e.CheckEndpoint != "" {
		checkEndpoint = e.CheckEndpoint
	}

	if e.RetrievalEndpoint != "" {
		retrievalEndpoint = e.RetrievalEndpoint
	}

	var existingID interface{}
	if e.ExistingResourceID != "" {
		existingID = e.ExistingResourceID
	}

	return map[string]interface{}{
		"type":                   "conflict",
		"message":                e.Message,
		"status_code":            http.StatusConflict,
		"conflict_type":          string(e.ConflictType),
		"conflict_fields":        e.ConflictFields,
		"existing_values":        e.ExistingValues,
		"existing_resource_id":   existingID,
		"resolution_suggestions": e.ResolutionSuggestions,
		"auto_resolvable":        e.IsAutoResolvable(),
		"check_endpoint":         checkEndpoint,
		"retrieval_endpoint":     retrievalEndpoint,
		"idempotency_supported":  true,
	}
}

// EmailExists builds the conflict raised when a customer or user email is
// already registered. existingID may be empty when the API did not disclose
// the resource.
func EmailExists(email, existingID string) *ConflictError {
	return &ConflictError{
		Message:            fmt.Sprintf("email %q is already registered", email),
		ConflictType:       ConflictEmailExists,
		ConflictFields:     []string{"email"},
		ExistingValues:     map[string]interface{}{"email": email},
		ExistingResourceID: existingID,
		ResolutionSuggestions: []string{
			"fetch the existing customer via the retrieval endpoint",
			"use a different email address",
		},
		CheckEndpoint:     "/customers/check-email?email=" + url.QueryEscape(email),
		RetrievalEndpoint: retrievalEndpoint("/customers", existingID),
	}
}

// DomainExists builds the conflict raised when a tenant domain is taken.
func DomainExists(domain, existingID string) *ConflictError {
	return &ConflictError{
		Message:            fmt.Sprintf("domain %q is already in use", domain),
		ConflictType:       ConflictDomainExists,
		ConflictFields:     []string{"domain"},
		ExistingValues:     map[string]interface{}{"domain": domain},
		ExistingResourceID: existingID,
		ResolutionSuggestions: []string{
			"fetch the existing tenant via the retrieval endpoint",
			"choose a different domain",
		},
		CheckEndpoint:     "/tenants/check-domain?domain=" + url.QueryEscape(domain),
		RetrievalEndpoint: retrievalEndpoint("/tenants", existingID),
	}
}

// SubdomainExists builds the conflict raised when a tenant subdomain is taken.
func SubdomainExists(subdomain, existingID string) *ConflictError {
	return &ConflictError{
		Message:            fmt.Sprintf("subdomain %q is already in use", subdomain),
		ConflictType:       ConflictSubdomainExists,
		ConflictFields:     []string{"subdomain"},
		ExistingValues:     map[string]interface{}{"subdomain": subdomain},
		ExistingResourceID: existingID,
		ResolutionSuggestions: []string{
			"fetch the existing tenant via the retrieval endpoint",
			"choose a different subdomain",
		},
		CheckEndpoint:     "/tenants/check-subdomain?subdomain=" + url.QueryEscape(subdomain),
		RetrievalEndpoint: retrievalEndpoint("/tenants", existingID),
	}
}

// UserExists builds the conflict raised when a platform user already exists.
func UserExists(username, existingID string) *ConflictError {
	return &ConflictError{
		Message:            fmt.Sprintf("user %q already exists", username),
		ConflictType:       ConflictUserExists,
		ConflictFields:     []string{"username"},
		ExistingValues:     map[string]interface{}{"username": username},
		ExistingResourceID: existingID,
		ResolutionSuggestions: []string{
			"fetch the existing user via the retrieval endpoint",
		},
		CheckEndpoint:     "/users/check?username=" + url.QueryEscape(username),
		RetrievalEndpoint: retrievalEndpoint("/users", existingID),
	}
}

// TenantExists builds the conflict raised when a tenant already exists.
func TenantExists(name, existingID string) *ConflictError {
	return &ConflictError{
		Message:            fmt.Sprintf("tenant %q already exists", name),
		ConflictType:       ConflictTenantExists,
		ConflictFields:     []string{"name"},
		ExistingValues:     map[string]interface{}{"name": name},
		ExistingResourceID: existingID,
		ResolutionSuggestions: []string{
			"fetch the existing tenant via the retrieval endpoint",
		},
		CheckEndpoint:     "/tenants/check?name=" + url.QueryEscape(name),
		RetrievalEndpoint: retrievalEndpoint("/tenants", existingID),
	}
}

func retrievalEndpoint(base, existingID string) string {
	if existingID == "" {
		return ""
	}

	return base + "/" + url.PathEscape(existingID)
}

// conflictPayload is the body shape the API sends with a 409.
type conflictPayload struct {
	Message               string                 `json:"message"`
	ConflictType          ConflictType           `json:"conflict_type"`
	ConflictFields        []string               `json:"conflict_fields"`
	ExistingValues        map[string]interface{} `json:"existing_values"`
	ExistingResourceID    string                 `json:"existing_resource_id"`
	ResolutionSuggestions []string               `json:"resolution_suggestions"`
	CheckEndpoint         string                 `json:"check_endpoint"`
	RetrievalEndpoint     string                 `json:"retrieval_endpoint"`
}

// ParseConflictResponse builds a ConflictError from a 409 response. Bodies
// that do not decode still yield a usable error with the raw message.
func ParseConflictResponse(resp *Response) *ConflictError {
	var payload conflictPayload

	err := json.Unmarshal(resp.Body, &payload)
	if err != nil {
		return &ConflictError{Message: string(resp.Body)}
	}

	return &ConflictError{
		Message:               payload.Message,
		ConflictType:          payload.ConflictType,
		ConflictFields:        payload.ConflictFields,
		ExistingValues:        payload.ExistingValues,
		ExistingResourceID:    payload.ExistingResourceID,
		ResolutionSuggestions: payload.ResolutionSuggestions,
		CheckEndpoint:         payload.CheckEndpoint,
		RetrievalEndpoint:     payload.RetrievalEndpoint,
	}
}
