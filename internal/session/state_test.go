package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
)

// scriptedResolver blocks each Resolve call until released, so tests control
// the interleaving of identity events and resolution completions.
type scriptedResolver struct {
	mu      sync.Mutex
	results map[string]domainauth.Role
	gate    chan struct{} // when non-nil, Resolve blocks on it
	calls   []string
}

func (r *scriptedResolver) Resolve(_ context.Context, key string) domainauth.Role {
	r.mu.Lock()
	r.calls = append(r.calls, key)
	gate := r.gate
	role, ok := r.results[key]
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return domainauth.RoleUser
	}
	return role
}

func (r *scriptedResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func ident(id string) *domainauth.Identity {
	return &domainauth.Identity{UserID: id, ExpiresAt: time.Now().Add(time.Hour)}
}

func awaitRole(t *testing.T, st *State) domainauth.Role {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	role, ok := st.AwaitRole(ctx)
	require.True(t, ok, "role was not resolved in time")
	return role
}

func TestState_SignOutClearsRoleSynchronously(t *testing.T) {
	resolver := &scriptedResolver{results: map[string]domainauth.Role{"u1": domainauth.RoleAdmin}}
	st := NewState(resolver, nil)
	ctx := context.Background()

	st.OnIdentityChanged(ctx, ident("u1"))
	assert.Equal(t, domainauth.RoleAdmin, awaitRole(t, st))

	st.OnIdentityChanged(ctx, nil)

	// Reset must be observable immediately, not after some async settling.
	snap := st.Snapshot()
	assert.Nil(t, snap.Identity)
	assert.Equal(t, domainauth.Role(""), snap.Role)
	assert.False(t, snap.RoleLoaded)
}

func TestState_StaleResolutionForEarlierIdentityIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	resolver := &scriptedResolver{
		results: map[string]domainauth.Role{"a": domainauth.RoleAdmin, "b": domainauth.RoleUser},
		gate:    gate,
	}
	st := NewState(resolver, nil)
	ctx := context.Background()

	st.OnIdentityChanged(ctx, ident("a"))
	st.OnIdentityChanged(ctx, ident("b"))
	close(gate) // both lookups complete; only b's may apply

	role := awaitRole(t, st)
	assert.Equal(t, domainauth.RoleUser, role)

	snap := st.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "b", snap.Identity.UserID)
	assert.Equal(t, domainauth.RoleUser, snap.Role)
}

func TestState_ResolutionAfterSignOutIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	resolver := &scriptedResolver{
		results: map[string]domainauth.Role{"u1": domainauth.RoleAdmin},
		gate:    gate,
	}
	st := NewState(resolver, nil)
	ctx := context.Background()

	st.OnIdentityChanged(ctx, ident("u1"))
	st.OnIdentityChanged(ctx, nil)
	close(gate) // the u1 lookup now completes with admin

	// Give the discarded completion a chance to (incorrectly) apply.
	require.Eventually(t, func() bool { return resolver.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	snap := st.Snapshot()
	assert.Nil(t, snap.Identity)
	assert.Equal(t, domainauth.Role(""), snap.Role)
	assert.False(t, snap.RoleLoaded)
}

func TestState_SignInResetsRoleLoadedBeforeResolution(t *testing.T) {
	gate := make(chan struct{})
	resolver := &scriptedResolver{
		results: map[string]domainauth.Role{"u1": domainauth.RoleProgrammer},
		gate:    gate,
	}
	st := NewState(resolver, nil)
	ctx := context.Background()

	st.OnIdentityChanged(ctx, ident("u1"))

	snap := st.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.False(t, snap.RoleLoaded)

	close(gate)
	assert.Equal(t, domainauth.RoleProgrammer, awaitRole(t, st))
	assert.True(t, st.Snapshot().RoleLoaded)
}

func TestState_AwaitIdentityTimesOutWhenSourceNeverEmits(t *testing.T) {
	st := NewState(&scriptedResolver{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, observed := st.AwaitIdentity(ctx)
	assert.False(t, observed)
}

func TestState_AwaitIdentityReturnsNilForSignedOut(t *testing.T) {
	st := NewState(&scriptedResolver{}, nil)
	st.OnIdentityChanged(context.Background(), nil)

	got, observed := st.AwaitIdentity(context.Background())
	assert.True(t, observed)
	assert.Nil(t, got)
}

func TestState_AwaitRoleWakesOnSignOut(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	resolver := &scriptedResolver{gate: gate}
	st := NewState(resolver, nil)
	ctx := context.Background()

	st.OnIdentityChanged(ctx, ident("u1"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := st.AwaitRole(context.Background())
		assert.False(t, ok)
	}()

	st.OnIdentityChanged(ctx, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AwaitRole did not wake after sign-out")
	}
}

// identityStream is a channel-backed test double for ports.IdentityEvents.
type identityStream struct {
	ch chan *domainauth.Identity
}

func (s *identityStream) Subscribe(context.Context) (<-chan *domainauth.Identity, error) {
	return s.ch, nil
}

func TestState_RunAppliesEventsInOrder(t *testing.T) {
	resolver := &scriptedResolver{results: map[string]domainauth.Role{"u1": domainauth.RoleUser}}
	st := NewState(resolver, nil)

	stream := &identityStream{ch: make(chan *domainauth.Identity)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = st.Run(ctx, stream)
	}()

	stream.ch <- ident("u1")
	assert.Equal(t, domainauth.RoleUser, awaitRole(t, st))

	stream.ch <- nil
	require.Eventually(t, func() bool { return st.Snapshot().Identity == nil },
		time.Second, 5*time.Millisecond)

	close(stream.ch)
	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after stream close")
	}
}

func TestState_MustChangePasswordFromClaims(t *testing.T) {
	resolver := &scriptedResolver{}
	st := NewState(resolver, nil)
	ctx := context.Background()

	flagged := ident("u1")
	flagged.Claims = map[string]any{domainauth.ClaimMustChangePassword: true}
	st.OnIdentityChanged(ctx, flagged)
	assert.True(t, st.Snapshot().MustChangePassword)

	st.OnIdentityChanged(ctx, ident("u2"))
	assert.False(t, st.Snapshot().MustChangePassword)
}
