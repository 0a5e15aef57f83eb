package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/core"
	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/ports"
	"github.com/teamdesk/teamdesk/internal/session"
)

// ErrInvalidCredentials is returned on a failed password login. It is
// deliberately indistinguishable between "no such account" and "wrong
// password".
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionNotFound is returned when a session ID does not resolve.
var ErrSessionNotFound = errors.New("session not found")

const passwordSessionDuration = 8 * time.Hour

// dummyHash is a valid bcrypt hash compared against when the account lookup
// misses, so both failure paths cost a hash verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// IdentityPublisher emits identity change events to session state consumers.
type IdentityPublisher interface {
	Publish(identity *domainauth.Identity)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Accounts core.AccountRepository
	Resolver *session.Resolver
	Fallback ports.FallbackStore
	// Mapper derives a role from provider claims; nil means roles always come
	// from the persisted record via the resolver.
	Mapper ports.RoleMapper
	Events IdentityPublisher
	Logger *slog.Logger
}

// AuthService orchestrates login flows, session issuance, and the identity
// event stream that drives session state.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	accounts core.AccountRepository
	resolver *session.Resolver
	fallback ports.FallbackStore
	mapper   ports.RoleMapper
	events   IdentityPublisher
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		accounts: opts.Accounts,
		resolver: opts.Resolver,
		fallback: opts.Fallback,
		mapper:   opts.Mapper,
		events:   opts.Events,
		logger:   logger.With("component", "auth_service"),
	}
}

// BeginLogin starts the federated login flow.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (authURL, state, nonce string, err error) {
	return s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
}

// CompleteLogin finishes the federated flow: it exchanges the code, resolves
// the role (claims first, persisted record second), issues a session, writes
// the fallback record, and publishes the identity change.
func (s *AuthService) CompleteLogin(ctx context.Context, in ports.ExchangeInput) (domainauth.Session, error) {
	identity, err := s.provider.Exchange(ctx, in)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("complete login: %w", err)
	}

	role := s.resolveRole(ctx, identity)
	sess, err := s.issueSession(ctx, identity, role)
	if err != nil {
		return domainauth.Session{}, err
	}

	s.publish(&identity)
	return sess, nil
}

// resolveRole prefers a role determined by provider claims; otherwise it
// falls back to the persisted record, which also provisions first-sight
// identities. The record lookup runs either way so provisioning happens even
// when claims decide the role.
func (s *AuthService) resolveRole(ctx context.Context, identity domainauth.Identity) domainauth.Role {
	recordRole := s.resolver.Resolve(ctx, identity.UserID)
	if s.mapper != nil {
		if role, ok := s.mapper.Map(identity.Claims); ok {
			return role
		}
	}
	return recordRole
}

// PasswordLogin authenticates an email/password account and issues a session.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (domainauth.Session, error) {
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Equalize timing between unknown accounts and bad passwords.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return domainauth.Session{}, ErrInvalidCredentials
	}
	if acct.PasswordHash == "" {
		return domainauth.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return domainauth.Session{}, ErrInvalidCredentials
	}

	identity := identityForAccount(acct)
	role, ok := domainauth.ParseRole(acct.Role)
	if !ok {
		role = domainauth.RoleUser
	}

	sess, err := s.issueSession(ctx, identity, role)
	if err != nil {
		return domainauth.Session{}, err
	}

	s.publish(&identity)
	return sess, nil
}

// Register creates a self-service account with the least privileged role.
func (s *AuthService) Register(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if req == nil {
		return nil, apperrors.Validation("registration request is required")
	}
	// Self-registration never chooses its own role or provisioning flags.
	req.Role = string(domainauth.RoleUser)
	req.MustChangePassword = false
	return s.createAccount(ctx, req)
}

// ProvisionProgrammer creates a programmer account with a temporary password.
// The account carries must_change_password until the first password change.
func (s *AuthService) ProvisionProgrammer(ctx context.Context, email, displayName, tempPassword string) (*model.Account, error) {
	req := &model.CreateAccountRequest{
		Email:              email,
		DisplayName:        displayName,
		Password:           tempPassword,
		Role:               string(domainauth.RoleProgrammer),
		MustChangePassword: true,
	}
	return s.createAccount(ctx, req)
}

func (s *AuthService) createAccount(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.Create(ctx, req, string(hash))
}

// ChangePassword verifies the current password, stores the new hash, clears
// the must-change-password flag, and refreshes the active session.
func (s *AuthService) ChangePassword(ctx context.Context, sessionID, current, next string) (domainauth.Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domainauth.Session{}, err
	}

	acct, err := s.accounts.GetByID(ctx, sess.UserID)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(current)) != nil {
		return domainauth.Session{}, ErrInvalidCredentials
	}
	if err := model.ValidatePassword(next); err != nil {
		return domainauth.Session{}, apperrors.Validation(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.accounts.UpdatePassword(ctx, acct.ID, string(hash)); err != nil {
		return domainauth.Session{}, fmt.Errorf("update password: %w", err)
	}

	sess.MustChangePassword = false
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("refresh session: %w", err)
	}
	return sess, nil
}

// GetSession loads an active session by ID.
func (s *AuthService) GetSession(ctx context.Context, id string) (domainauth.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.Session{}, ErrSessionNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		return domainauth.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Logout deletes the session, clears the fallback record, and publishes the
// sign-out so session state resets synchronously.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		if clearErr := s.fallback.Clear(ctx, sess.UserID); clearErr != nil {
			s.logger.WarnContext(ctx, "clear fallback record failed", "err", clearErr)
		}
	}
	if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
		return fmt.Errorf("delete session: %w", delErr)
	}

	s.publish(nil)
	return nil
}

// ListAccounts returns a page of accounts for the admin console.
func (s *AuthService) ListAccounts(ctx context.Context, limit, offset int) ([]*model.Account, error) {
	return s.accounts.List(ctx, limit, offset)
}

// SetRole updates an account's role. Admin-only; enforced at the HTTP layer.
func (s *AuthService) SetRole(ctx context.Context, accountID, role string) error {
	ok, err := s.accounts.SetRole(ctx, accountID, role)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("account not found")
	}
	return nil
}

// issueSession builds and persists the session and fallback record for an
// authenticated identity. A fallback write failure is logged, not fatal:
// guards treat a missing record as "unauthenticated" and bounce to login.
func (s *AuthService) issueSession(ctx context.Context, identity domainauth.Identity, role domainauth.Role) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:                 uuid.New().String(),
		UserID:             identity.UserID,
		DisplayName:        identity.DisplayName,
		Email:              identity.Email,
		Role:               role,
		MustChangePassword: mustChangePassword(identity),
		ExpiresAt:          identity.ExpiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}

	userBlob, err := json.Marshal(map[string]string{
		"user_id":      sess.UserID,
		"display_name": sess.DisplayName,
		"email":        sess.Email,
	})
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("marshal fallback user: %w", err)
	}
	rec := ports.FallbackRecord{Role: string(role), User: userBlob}
	if err := s.fallback.Save(ctx, identity.UserID, rec); err != nil {
		s.logger.WarnContext(ctx, "save fallback record failed", "err", err)
	}

	return sess, nil
}

func (s *AuthService) publish(identity *domainauth.Identity) {
	if s.events != nil {
		s.events.Publish(identity)
	}
}

// identityForAccount shapes a password account as an Identity so session
// issuance and the event stream treat both login paths uniformly.
func identityForAccount(acct *model.Account) domainauth.Identity {
	return domainauth.Identity{
		UserID:      acct.ID,
		DisplayName: acct.DisplayName,
		Email:       acct.Email,
		Claims: map[string]any{
			"sub":                              acct.ID,
			"email":                            acct.Email,
			domainauth.ClaimMustChangePassword: acct.MustChangePassword,
		},
		ExpiresAt: time.Now().Add(passwordSessionDuration),
	}
}

func mustChangePassword(identity domainauth.Identity) bool {
	v, ok := identity.Claims[domainauth.ClaimMustChangePassword].(bool)
	return ok && v
}
