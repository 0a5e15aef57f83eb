package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.RecordStore   = (*MemoryRecordStore)(nil)
	_ ports.FallbackStore = (*MemoryFallbackStore)(nil)
	_ ports.RoleMapper    = (*StaticRoleMapper)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:      "mock-user-1",
			DisplayName: "Mock User",
			Email:       "mock.user@example.com",
			Claims:      map[string]any{"sub": "mock-user-1"},
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	// Generate deterministic state and nonce based on call count
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID:      "mock-user-1",
			DisplayName: "Mock User",
			Email:       "mock.user@example.com",
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MemoryRecordStore is an in-memory role record store for unit tests.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]ports.RoleRecord

	// GetErr, when set, is returned by every GetRecord call.
	GetErr error
	// CreateErr, when set, is returned by every CreateRecord call.
	CreateErr error

	// Creates counts CreateRecord calls.
	Creates int
}

// NewMemoryRecordStore creates a new in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]ports.RoleRecord)}
}

// Seed inserts a record directly.
func (m *MemoryRecordStore) Seed(key string, rec ports.RoleRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = rec
}

func (m *MemoryRecordStore) GetRecord(_ context.Context, identityKey string) (ports.RoleRecord, error) {
	if m.GetErr != nil {
		return ports.RoleRecord{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[identityKey]
	if !ok {
		return ports.RoleRecord{}, ports.ErrRecordNotFound
	}
	return rec, nil
}

func (m *MemoryRecordStore) CreateRecord(_ context.Context, identityKey string, rec ports.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, exists := m.records[identityKey]; !exists {
		m.records[identityKey] = rec
	}
	return nil
}

// MemoryFallbackStore is an in-memory fallback record store for unit tests.
type MemoryFallbackStore struct {
	mu      sync.Mutex
	records map[string]ports.FallbackRecord
}

// NewMemoryFallbackStore creates a new in-memory fallback store.
func NewMemoryFallbackStore() *MemoryFallbackStore {
	return &MemoryFallbackStore{records: make(map[string]ports.FallbackRecord)}
}

func (m *MemoryFallbackStore) Load(_ context.Context, key string) (ports.FallbackRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	return rec, ok
}

func (m *MemoryFallbackStore) Save(_ context.Context, key string, rec ports.FallbackRecord) error {
	if key == "" {
		return errors.New("fallback key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = rec
	return nil
}

func (m *MemoryFallbackStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// StaticRoleMapper resolves the role from a fixed claim key, defaulting to
// "role". Useful for tests that do not want a real JMESPath mapper.
type StaticRoleMapper struct {
	ClaimKey string
}

func (m StaticRoleMapper) Map(claims map[string]any) (domainauth.Role, bool) {
	key := m.ClaimKey
	if key == "" {
		key = "role"
	}
	v, ok := claims[key].(string)
	if !ok {
		return "", false
	}
	return domainauth.ParseRole(v)
}
