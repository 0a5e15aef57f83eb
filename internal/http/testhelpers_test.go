package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/domain/model"
	mockauth "github.com/teamdesk/teamdesk/internal/mocks/auth"
	"github.com/teamdesk/teamdesk/internal/ports"
	"github.com/teamdesk/teamdesk/internal/service"
	"github.com/teamdesk/teamdesk/internal/session"
)

// stubAuthService implements AuthServiceInterface for handler and middleware
// tests. Sessions are served from the map; the func fields override single
// operations when a test needs specific behavior.
type stubAuthService struct {
	sessions map[string]domainauth.Session

	beginFunc     func(ctx context.Context, redirectURL string) (string, string, string, error)
	completeFunc  func(ctx context.Context, in ports.ExchangeInput) (domainauth.Session, error)
	passwordFunc  func(ctx context.Context, email, password string) (domainauth.Session, error)
	registerFunc  func(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error)
	provisionFunc func(ctx context.Context, email, displayName, tempPassword string) (*model.Account, error)
	changeFunc    func(ctx context.Context, sessionID, current, next string) (domainauth.Session, error)
	listFunc      func(ctx context.Context, limit, offset int) ([]*model.Account, error)
	setRoleFunc   func(ctx context.Context, accountID, role string) error

	logouts []string
}

func newStubAuthService() *stubAuthService {
	return &stubAuthService{sessions: make(map[string]domainauth.Session)}
}

func (s *stubAuthService) addSession(sess domainauth.Session) {
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = time.Now().Add(time.Hour)
	}
	s.sessions[sess.ID] = sess
}

func (s *stubAuthService) BeginLogin(ctx context.Context, redirectURL string) (string, string, string, error) {
	if s.beginFunc != nil {
		return s.beginFunc(ctx, redirectURL)
	}
	return "https://idp.example.com/auth", "state-1", "nonce-1", nil
}

func (s *stubAuthService) CompleteLogin(ctx context.Context, in ports.ExchangeInput) (domainauth.Session, error) {
	if s.completeFunc != nil {
		return s.completeFunc(ctx, in)
	}
	return domainauth.Session{}, errors.New("complete login not stubbed")
}

func (s *stubAuthService) PasswordLogin(ctx context.Context, email, password string) (domainauth.Session, error) {
	if s.passwordFunc != nil {
		return s.passwordFunc(ctx, email, password)
	}
	return domainauth.Session{}, service.ErrInvalidCredentials
}

func (s *stubAuthService) Register(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if s.registerFunc != nil {
		return s.registerFunc(ctx, req)
	}
	return nil, errors.New("register not stubbed")
}

func (s *stubAuthService) ProvisionProgrammer(ctx context.Context, email, displayName, tempPassword string) (*model.Account, error) {
	if s.provisionFunc != nil {
		return s.provisionFunc(ctx, email, displayName, tempPassword)
	}
	return nil, errors.New("provision not stubbed")
}

func (s *stubAuthService) ChangePassword(ctx context.Context, sessionID, current, next string) (domainauth.Session, error) {
	if s.changeFunc != nil {
		return s.changeFunc(ctx, sessionID, current, next)
	}
	return domainauth.Session{}, errors.New("change password not stubbed")
}

func (s *stubAuthService) GetSession(_ context.Context, sessionID string) (domainauth.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return domainauth.Session{}, service.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	s.logouts = append(s.logouts, sessionID)
	delete(s.sessions, sessionID)
	return nil
}

func (s *stubAuthService) ListAccounts(ctx context.Context, limit, offset int) ([]*model.Account, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (s *stubAuthService) SetRole(ctx context.Context, accountID, role string) error {
	if s.setRoleFunc != nil {
		return s.setRoleFunc(ctx, accountID, role)
	}
	return nil
}

var _ AuthServiceInterface = (*stubAuthService)(nil)

// testGuard builds a guard over an in-memory fallback store with a short
// identity wait so denied paths don't slow the suite down.
func testGuard(t *testing.T, fallback ports.FallbackStore) *session.Guard {
	t.Helper()
	if fallback == nil {
		fallback = mockauth.NewMemoryFallbackStore()
	}
	return session.NewGuard(session.GuardOptions{Fallback: fallback, IdentityWait: 50 * time.Millisecond})
}

// doRequest runs a request through the handler and returns the recorder.
func doRequest(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func withSessionCookie(r *http.Request, sessionID string) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	return r
}
