package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service
// and internal/session.

import (
	"context"
	"errors"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper derives an application role from provider claims.
// The second return value is false when the claims do not determine a role,
// in which case the caller falls back to the persisted role record.
type RoleMapper interface {
	Map(claims map[string]any) (domainauth.Role, bool)
}

// ErrRecordNotFound is returned by RecordStore.GetRecord when no record
// exists for the given identity key.
var ErrRecordNotFound = errors.New("role record not found")

// RoleRecord is the persisted per-identity record a RecordStore manages.
// Role is kept in string form: stored data may carry either the bare or the
// legacy "ROLE_"-prefixed spelling and is normalized by the resolver.
type RoleRecord struct {
	Role        string
	Email       string
	DisplayName string
}

// RecordStore reads and auto-provisions per-identity role records.
type RecordStore interface {
	// GetRecord returns the record for the identity key, or ErrRecordNotFound.
	GetRecord(ctx context.Context, identityKey string) (RoleRecord, error)

	// CreateRecord provisions a record for an identity key seen for the first time.
	CreateRecord(ctx context.Context, identityKey string, rec RoleRecord) error
}

// FallbackRecord is a best-effort snapshot written at login time and read by
// guards when authoritative session state is not yet populated. Values are
// untrusted and possibly stale; the role string may be in either spelling.
type FallbackRecord struct {
	Role string `json:"role"`
	User []byte `json:"user,omitempty"` // serialized user object, opaque to guards
}

// FallbackStore is durable key-value storage for fallback records.
type FallbackStore interface {
	// Load returns the record for the key; ok is false when none exists.
	// Load never fails: storage errors are treated as "no record".
	Load(ctx context.Context, key string) (rec FallbackRecord, ok bool)

	Save(ctx context.Context, key string, rec FallbackRecord) error
	Clear(ctx context.Context, key string) error
}

// IdentityEvents is a subscription to authentication state changes: one event
// per change, carrying the new identity or nil on sign-out. The provider
// guarantees at most one active identity at a time, and events are delivered
// in emission order.
type IdentityEvents interface {
	Subscribe(ctx context.Context) (<-chan *domainauth.Identity, error)
}
