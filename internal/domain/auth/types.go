package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleProgrammer Role = "programmer"
	RoleUser       Role = "user"
)

// ParseRole normalizes a persisted role string to its canonical Role value.
// Roles were historically stored either bare ("admin") or with a legacy
// "ROLE_" prefix ("ROLE_ADMIN"); both forms must compare equal at every
// call site, so normalization happens here and nowhere else. The second
// return value is false when the input does not name a known role.
func ParseRole(s string) (Role, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "role_")
	switch Role(v) {
	case RoleAdmin, RoleProgrammer, RoleUser:
		return Role(v), true
	}
	return "", false
}

// CanAccessProgrammerArea reports whether the role grants access to the
// programmer area. Admins inherit programmer-area access.
func (r Role) CanAccessProgrammerArea() bool {
	return r == RoleProgrammer || r == RoleAdmin
}

// ClaimMustChangePassword marks identities provisioned by an admin with a
// temporary password. It is carried in Identity.Claims by the password
// authenticator and cleared once the password is changed.
const ClaimMustChangePassword = "must_change_password"

// Identity represents the authenticated principal returned by an IdP or the
// local password authenticator. Adapters map provider-specific claims into
// this shape.
type Identity struct {
	UserID      string // stable user identifier (e.g., OIDC sub or account ID)
	DisplayName string
	Email       string
	Claims      map[string]any // raw provider claims; consumed by role mappers only
	ExpiresAt   time.Time      // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	DisplayName        string    `json:"display_name"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	MustChangePassword bool      `json:"must_change_password"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
