package session

// Package session holds the process-side view of "who is signed in and what
// may they do": a State fed by identity-source events, a Resolver that looks
// up and auto-provisions role records, and Guards that decide allow/redirect
// for protected areas.

import (
	"context"
	"log/slog"
	"sync"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/ports"
)

// RoleResolver determines the role for an identity key. Implementations must
// not fail: resolution always yields a role, defaulting to the least
// privileged one when the backing store is unavailable.
type RoleResolver interface {
	Resolve(ctx context.Context, identityKey string) domainauth.Role
}

// Snapshot is a point-in-time read of authorization state.
type Snapshot struct {
	Identity           *domainauth.Identity
	Role               domainauth.Role
	RoleLoaded         bool
	MustChangePassword bool
}

// AuthState is the read surface guards operate on. *State implements it over
// an identity event stream; the HTTP layer implements it per request from the
// session store.
type AuthState interface {
	// AwaitIdentity blocks until the first identity event has been observed
	// or ctx is done. The returned identity may be nil (signed out); observed
	// is false only when ctx expired before any event arrived.
	AwaitIdentity(ctx context.Context) (ident *domainauth.Identity, observed bool)

	// AwaitRole blocks until the role for the current identity is loaded or
	// ctx is done. ok is false when there is no identity, or ctx expired
	// before resolution completed.
	AwaitRole(ctx context.Context) (role domainauth.Role, ok bool)

	Snapshot() Snapshot
}

// State mirrors the identity source and carries the resolved role for the
// current identity. It is mutated only by identity events and role-resolution
// completions; reads never block.
//
// Invariant: RoleLoaded is true only after a resolver lookup completed for
// the current identity. When the identity becomes nil, role and RoleLoaded
// are cleared atomically with it; a resolution still in flight for an earlier
// identity is discarded via a generation counter.
type State struct {
	resolver RoleResolver
	logger   *slog.Logger

	mu              sync.Mutex
	identity        *domainauth.Identity
	role            domainauth.Role
	roleLoaded      bool
	generation      uint64
	roleReady       chan struct{}
	roleReadyClosed bool

	firstOnce  sync.Once
	firstEvent chan struct{}
}

// NewState constructs a State. The resolver is required; logger defaults to
// slog.Default when nil.
func NewState(resolver RoleResolver, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		resolver:   resolver,
		logger:     logger,
		roleReady:  make(chan struct{}),
		firstEvent: make(chan struct{}),
	}
}

// Run drains the identity event subscription until ctx is done. Events are
// applied in arrival order; a closed channel ends the loop.
func (s *State) Run(ctx context.Context, events ports.IdentityEvents) error {
	ch, err := events.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ident, open := <-ch:
			if !open {
				return nil
			}
			s.OnIdentityChanged(ctx, ident)
		}
	}
}

// OnIdentityChanged applies an identity event. A nil identity clears role and
// RoleLoaded in the same critical section; a non-nil identity resets
// RoleLoaded and schedules an asynchronous role lookup tagged with the
// current generation.
func (s *State) OnIdentityChanged(ctx context.Context, ident *domainauth.Identity) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.identity = ident
	s.role = ""
	s.roleLoaded = false
	s.resetRoleReadyLocked()
	s.mu.Unlock()

	s.firstOnce.Do(func() { close(s.firstEvent) })

	if ident == nil {
		return
	}

	key := ident.UserID
	go func() {
		role := s.resolver.Resolve(ctx, key)
		s.onRoleResolved(gen, role)
	}()
}

// onRoleResolved applies a resolver completion. Completions whose generation
// no longer matches belong to a superseded identity and are dropped.
func (s *State) onRoleResolved(gen uint64, role domainauth.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale role resolution", "generation", gen, "role", role)
		return
	}
	s.role = role
	s.roleLoaded = true
	s.closeRoleReadyLocked()
}

// AwaitIdentity implements AuthState.
func (s *State) AwaitIdentity(ctx context.Context) (*domainauth.Identity, bool) {
	select {
	case <-s.firstEvent:
	case <-ctx.Done():
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, true
}

// AwaitRole implements AuthState.
func (s *State) AwaitRole(ctx context.Context) (domainauth.Role, bool) {
	for {
		s.mu.Lock()
		if s.roleLoaded {
			role := s.role
			s.mu.Unlock()
			return role, true
		}
		if s.identity == nil {
			// No identity means no resolution is coming.
			s.mu.Unlock()
			return "", false
		}
		ready := s.roleReady
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", false
		case <-ready:
		}
	}
}

// Snapshot implements AuthState.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Identity:           s.identity,
		Role:               s.role,
		RoleLoaded:         s.roleLoaded,
		MustChangePassword: identityMustChangePassword(s.identity),
	}
}

// resetRoleReadyLocked wakes waiters from the previous identity (they
// re-check and observe the new state) and installs a fresh channel.
func (s *State) resetRoleReadyLocked() {
	s.closeRoleReadyLocked()
	s.roleReady = make(chan struct{})
	s.roleReadyClosed = false
}

func (s *State) closeRoleReadyLocked() {
	if !s.roleReadyClosed {
		close(s.roleReady)
		s.roleReadyClosed = true
	}
}

// identityMustChangePassword reads the provisioning flag carried on
// password-account identities. Absent or malformed claims mean false.
func identityMustChangePassword(ident *domainauth.Identity) bool {
	if ident == nil || ident.Claims == nil {
		return false
	}
	v, ok := ident.Claims[domainauth.ClaimMustChangePassword].(bool)
	return ok && v
}
