package session

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/ports"
)

// Redirect targets used by guard decisions. The routing layer interprets
// these; guards only name the destination.
const (
	RouteLogin       = "/auth/login"
	RouteHome        = "/portal"
	RouteHomeDefault = "/portal/projects"
)

// DefaultIdentityWait bounds how long a guard waits for the first identity
// event before treating the navigation as anonymous.
const DefaultIdentityWait = 3 * time.Second

// Decision is the outcome of a guard invocation, computed fresh on every
// call and never cached.
type Decision struct {
	Allow    bool
	Redirect string
}

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Fallback     ports.FallbackStore
	IdentityWait time.Duration
	Logger       *slog.Logger
}

// Guard decides admission to protected areas. Each check runs the same
// machine: establish identity (bounded wait), establish role, decide.
// Failed resolutions are denials, never retried.
type Guard struct {
	fallback     ports.FallbackStore
	identityWait time.Duration
	logger       *slog.Logger
}

// NewGuard constructs a Guard.
func NewGuard(opts GuardOptions) *Guard {
	wait := opts.IdentityWait
	if wait <= 0 {
		wait = DefaultIdentityWait
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{fallback: opts.Fallback, identityWait: wait, logger: logger}
}

// Admin admits only the admin role. Anonymous navigations go to login,
// authenticated but unauthorized ones to the home area.
func (g *Guard) Admin(ctx context.Context, st AuthState) Decision {
	ctx, cancel := context.WithTimeout(ctx, g.identityWait)
	defer cancel()

	ident, observed := st.AwaitIdentity(ctx)
	if !observed || ident == nil {
		return Decision{Redirect: RouteLogin}
	}

	role, ok := st.AwaitRole(ctx)
	if !ok || role != domainauth.RoleAdmin {
		return Decision{Redirect: RouteHome}
	}
	return Decision{Allow: true}
}

// Programmer admits programmers and admins. When authoritative state has not
// caught up with navigation (the reload race), it consults the persisted
// fallback record under fallbackKey: a record with the right role admits, a
// record with a missing or mismatched role redirects to the home default
// sub-route, and no record at all is treated as anonymous.
func (g *Guard) Programmer(ctx context.Context, st AuthState, fallbackKey string) Decision {
	snap := st.Snapshot()
	if snap.Identity != nil && snap.RoleLoaded {
		if snap.Role.CanAccessProgrammerArea() {
			return Decision{Allow: true}
		}
		return Decision{Redirect: RouteHomeDefault}
	}

	role, roleOK, present := g.fallbackRole(ctx, fallbackKey)
	if !present {
		return Decision{Redirect: RouteLogin}
	}
	if roleOK && role.CanAccessProgrammerArea() {
		return Decision{Allow: true}
	}
	return Decision{Redirect: RouteHomeDefault}
}

// MustChangePassword admits only sessions still carrying the provisioning
// flag; everyone else is sent home (or to login when anonymous).
func (g *Guard) MustChangePassword(ctx context.Context, st AuthState) Decision {
	ctx, cancel := context.WithTimeout(ctx, g.identityWait)
	defer cancel()

	ident, observed := st.AwaitIdentity(ctx)
	if !observed || ident == nil {
		return Decision{Redirect: RouteLogin}
	}
	if st.Snapshot().MustChangePassword {
		return Decision{Allow: true}
	}
	return Decision{Redirect: RouteHome}
}

// fallbackRole is the second tier of the documented lookup order:
// authoritative state first, fallback store second, anonymous last.
// present reports whether any record exists; roleOK whether its role string
// named a known role in either spelling.
func (g *Guard) fallbackRole(ctx context.Context, key string) (role domainauth.Role, roleOK, present bool) {
	if g.fallback == nil || key == "" {
		return "", false, false
	}
	rec, ok := g.fallback.Load(ctx, key)
	if !ok {
		return "", false, false
	}
	role, roleOK = domainauth.ParseRole(rec.Role)
	return role, roleOK, true
}
