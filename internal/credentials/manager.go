// Package credentials implements the multi-context credential store:
// named super-admin and tenant credential bundles, one active context, and
// write-through persistence to a pluggable storage backend.
package credentials

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/clubify-io/checkout-client/internal/constants"
	"github.com/clubify-io/checkout-client/pkg/checkout"
)

// ContextType tags a credential context.
type ContextType string

const (
	// TypeSuperAdmin is a platform-operator context.
	TypeSuperAdmin ContextType = "super_admin"

	// TypeTenantAdmin is a tenant-scoped context.
	TypeTenantAdmin ContextType = "tenant_admin"
)

// apiKeyPattern is the fixed API key format for both context types.
var apiKeyPattern = regexp.MustCompile(`^clb_(test|live)_[a-f0-9]{32}$`)

// ValidAPIKey reports whether key matches the platform API key format.
func ValidAPIKey(key string) bool {
	return apiKeyPattern.MatchString(key)
}

// Context is a named bundle of credentials.
type Context struct {
	ID           string      `json:"id"                      yaml:"id"`
	Type         ContextType `json:"type"                    yaml:"type"`
	APIKey       string      `json:"api_key,omitempty"       yaml:"api_key,omitempty"`
	AccessToken  string      `json:"access_token,omitempty"  yaml:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	Role         string      `json:"role,omitempty"          yaml:"role,omitempty"`

	// Tenant-specific fields.
	TenantID   string `json:"tenant_id,omitempty"   yaml:"tenant_id,omitempty"`
	TenantName string `json:"tenant_name,omitempty" yaml:"tenant_name,omitempty"`
	Domain     string `json:"domain,omitempty"      yaml:"domain,omitempty"`
	Subdomain  string `json:"subdomain,omitempty"   yaml:"subdomain,omitempty"`

	// Super-admin specific fields.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Email    string `json:"email,omitempty"    yaml:"email,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	LastUsed  time.Time `json:"last_used"  yaml:"last_used"`
}

// Token returns the credential used for the Authorization header: the access
// token when present, otherwise the API key.
func (c *Context) Token() string {
	if c.AccessToken != "" {
		return c.AccessToken
	}

	return c.APIKey
}

// SuperAdminCredentials is the input for AddSuperAdminContext.
type SuperAdminCredentials struct {
	APIKey   string
	Username string
	Email    string
	Password string
	Role     string
}

// TenantCredentials is the input for AddTenantContext.
type TenantCredentials struct {
	APIKey      string
	TenantName  string
	Domain      string
	Subdomain   string
	AccessToken string
	Role        string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger checkout.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithAutoSync controls write-through persistence on add/switch operations.
// Enabled by default when a storage backend is present.
func WithAutoSync(autoSync bool) Option {
	return func(m *Manager) {
		m.autoSync = autoSync
	}
}

// Manager holds named credential contexts and an active-context pointer. All
// operations are serialized by an internal lock; concurrent callers are safe.
type Manager struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	active   string
	storage  Storage
	autoSync bool
	logger   checkout.Logger
}

// NewManager builds a manager over storage (may be nil for memory-only use)
// and loads persisted contexts best-effort: a failing backend degrades to an
// empty context set, never an error.
func NewManager(storage Storage, opts ...Option) *Manager {
	manager := &Manager{
		contexts: make(map[string]*Context),
		active:   constants.DefaultContextID,
		storage:  storage,
		autoSync: storage != nil,
	}

	for _, opt := range opts {
		opt(manager)
	}

	manager.loadAll()

	return manager
}

// loadAll reads every persisted context. Per-context failures are logged and
// skipped.
func (m *Manager) loadAll() {
	if m.storage == nil {
		return
	}

	ids, err := m.storage.ListContexts()
	if err != nil {
		m.logWarn("listing persisted contexts failed", map[string]interface{}{"error": err.Error()})

		return
	}

	for _, id := range ids {
		stored, err := m.storage.Retrieve(id)
		if err != nil {
			m.logWarn("loading persisted context failed", map[string]interface{}{
				"context_id": id,
				"error":      err.Error(),
			})

			continue
		}

		if stored != nil {
			m.contexts[id] = stored
		}
	}
}

// AddSuperAdminContext validates and stores a super-admin context under the
// "super_admin" id. A super-admin context needs a well-formed API key or
// both email and password.
func (m *Manager) AddSuperAdminContext(creds SuperAdminCredentials) error {
	if creds.APIKey != "" && !ValidAPIKey(creds.APIKey) {
		return &checkout.AuthenticationError{Reason: "super admin API key does not match the expected format"}
	}

	if creds.APIKey == "" && (creds.Email == "" || creds.Password == "") {
		return &checkout.AuthenticationError{Reason: "super admin context requires an API key or email and password"}
	}

	now := time.Now()
	credContext := &Context{
		ID:        string(TypeSuperAdmin),
		Type:      TypeSuperAdmin,
		APIKey:    creds.APIKey,
		Username:  creds.Username,
		Email:     creds.Email,
		Password:  creds.Password,
		Role:      creds.Role,
		CreatedAt: now,
		LastUsed:  now,
	}

	m.mu.Lock()
	m.contexts[credContext.ID] = credContext
	m.mu.Unlock()

	m.persist(credContext)

	return nil
}

// AddTenantContext validates and stores a tenant context keyed by tenantID.
// A tenant context needs a well-formed API key or basic identifying info
// (tenant id or name).
func (m *Manager) AddTenantContext(tenantID string, creds TenantCredentials) error {
	if creds.APIKey != "" && !ValidAPIKey(creds.APIKey) {
		return &checkout.AuthenticationError{Reason: "tenant API key does not match the expected format"}
	}

	if creds.APIKey == "" && tenantID == "" && creds.TenantName == "" {
		return &checkout.AuthenticationError{Reason: "tenant context requires an API key or tenant identification"}
	}

	if tenantID == "" {
		return checkout.ErrTenantIDRequired
	}

	now := time.Now()
	credContext := &Context{
		ID:          tenantID,
		Type:        TypeTenantAdmin,
		APIKey:      creds.APIKey,
		AccessToken: creds.AccessToken,
		TenantID:    tenantID,
		TenantName:  creds.TenantName,
		Domain:      creds.Domain,
		Subdomain:   creds.Subdomain,
		Role:        creds.Role,
		CreatedAt:   now,
		LastUsed:    now,
	}

	m.mu.Lock()
	m.contexts[tenantID] = credContext
	m.mu.Unlock()

	m.persist(credContext)

	return nil
}

// SwitchContext makes contextID active. Contexts known only to storage are
// loaded lazily into memory.
func (m *Manager) SwitchContext(contextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	credContext, ok := m.contexts[contextID]
	if !ok && m.storage != nil {
		stored, err := m.storage.Retrieve(contextID)
		if err != nil {
			m.logWarn("retrieving context from storage failed", map[string]interface{}{
				"context_id": contextID,
				"error":      err.Error(),
			})
		}

		if stored != nil {
			m.contexts[contextID] = stored
			credContext, ok = stored, true
		}
	}

	if !ok {
		return fmt.Errorf("%w: %q", checkout.ErrContextNotFound, contextID)
	}

	m.active = contextID
	credContext.LastUsed = time.Now()

	if m.autoSync {
		m.persistLocked(credContext)
	}

	return nil
}

// ActiveContextID returns the id the active pointer holds.
func (m *Manager) ActiveContextID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.active
}

// CurrentCredentials returns the active context, or an empty record when the
// active pointer has no backing entry (the "default" sentinel may be empty).
func (m *Manager) CurrentCredentials() *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	credContext, ok := m.contexts[m.active]
	if !ok {
		return &Context{ID: m.active}
	}

	clone := *credContext

	return &clone
}

// RemoveContext deletes a context from memory and storage. Removing the
// active non-default context resets the active pointer to "default".
func (m *Manager) RemoveContext(contextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, contextID)

	if m.storage != nil {
		err := m.storage.Remove(contextID)
		if err != nil {
			m.logWarn("removing context from storage failed", map[string]interface{}{
				"context_id": contextID,
				"error":      err.Error(),
			})
		}
	}

	if m.active == contextID && contextID != constants.DefaultContextID {
		m.active = constants.DefaultContextID
	}

	return nil
}

// UpdateContextTokens updates the token fields of a known context in memory
// only; persistence stays with the caller until SyncToStorage runs. An
// unknown context is an error.
func (m *Manager) UpdateContextTokens(contextID, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	credContext, ok := m.contexts[contextID]
	if !ok {
		return fmt.Errorf("%w: %q", checkout.ErrContextNotFound, contextID)
	}

	credContext.AccessToken = accessToken
	if refreshToken != "" {
		credContext.RefreshToken = refreshToken
	}

	credContext.LastUsed = time.Now()

	return nil
}

// SyncToStorage pushes every in-memory context to storage best-effort.
// Per-context failures are logged and do not abort the loop.
func (m *Manager) SyncToStorage() {
	if m.storage == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, credContext := range m.contexts {
		err := m.storage.Store(id, credContext)
		if err != nil {
			m.logWarn("persisting context failed", map[string]interface{}{
				"context_id": id,
				"error":      err.Error(),
			})
		}
	}
}

// IsSuperAdminMode reports whether the active context is a super-admin one.
func (m *Manager) IsSuperAdminMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	credContext, ok := m.contexts[m.active]

	return ok && credContext.Type == TypeSuperAdmin
}

// IsTenantMode reports whether the active context is tenant-scoped.
func (m *Manager) IsTenantMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	credContext, ok := m.contexts[m.active]

	return ok && credContext.Type == TypeTenantAdmin
}

// Contexts returns a snapshot of every in-memory context.
func (m *Manager) Contexts() []*Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	contexts := make([]*Context, 0, len(m.contexts))
	for _, credContext := range m.contexts {
		clone := *credContext
		contexts = append(contexts, &clone)
	}

	return contexts
}

// ContextIDs returns the ids of every in-memory context.
func (m *Manager) ContextIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.contexts))
	for id := range m.contexts {
		ids = append(ids, id)
	}

	return ids
}

// GetToken implements the pipeline's TokenProvider over the active context.
func (m *Manager) GetToken(ctx context.Context) (string, error) {
	return m.CurrentCredentials().Token(), nil
}

func (m *Manager) persist(credContext *Context) {
	if !m.autoSync {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.persistLocked(credContext)
}

// persistLocked writes one context to storage; callers hold the lock.
// Failures are logged, never propagated.
func (m *Manager) persistLocked(credContext *Context) {
	if m.storage == nil {
		return
	}

	err := m.storage.Store(credContext.ID, credContext)
	if err != nil {
		m.logWarn("persisting context failed", map[string]interface{}{
			"context_id": credContext.ID,
			"error":      err.Error(),
		})
	}
}

func (m *Manager) logWarn(msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.Warn(msg, fields)
	}
}
