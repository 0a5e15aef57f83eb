package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/domain/model"
	apperrors "github.com/teamdesk/teamdesk/internal/errors"
	"github.com/teamdesk/teamdesk/internal/ports"
)

func responseCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_RedirectsToProviderWithCookies(t *testing.T) {
	h := &AuthHandlers{Svc: newStubAuthService()}

	r := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/portal/projects", nil)
	w := doRequest(http.HandlerFunc(h.Login), r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://idp.example.com/auth", w.Header().Get("Location"))

	state := responseCookie(t, w, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	nonce := responseCookie(t, w, "oauth_nonce")
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)
	redirect := responseCookie(t, w, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/portal/projects", redirect.Value)
}

func TestLogin_RejectsAbsoluteRedirect(t *testing.T) {
	svc := newStubAuthService()
	var captured string
	svc.beginFunc = func(_ context.Context, redirectURL string) (string, string, string, error) {
		captured = redirectURL
		return "https://idp.example.com/auth", "state-1", "nonce-1", nil
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com/", nil)
	doRequest(http.HandlerFunc(h.Login), r)
	assert.Equal(t, "/", captured)
}

func TestCallback_MissingCode(t *testing.T) {
	h := &AuthHandlers{Svc: newStubAuthService()}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?state=state-1", nil)
	w := doRequest(http.HandlerFunc(h.Callback), r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_code")
}

func TestCallback_StateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: newStubAuthService()}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-other"})
	w := doRequest(http.HandlerFunc(h.Callback), r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestCallback_Success(t *testing.T) {
	svc := newStubAuthService()
	svc.completeFunc = func(_ context.Context, in ports.ExchangeInput) (domainauth.Session, error) {
		assert.Equal(t, "c", in.Code)
		assert.Equal(t, "state-1", in.State)
		assert.Equal(t, "nonce-1", in.Nonce)
		return domainauth.Session{
			ID:        "sess-1",
			UserID:    "u1",
			Role:      domainauth.RoleProgrammer,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	r.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/portal/projects"})
	w := doRequest(http.HandlerFunc(h.Callback), r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/portal/projects", w.Header().Get("Location"))

	sess := responseCookie(t, w, sessionCookieName)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.Value)
	assert.Positive(t, sess.MaxAge)

	fb := responseCookie(t, w, fallbackCookieName)
	require.NotNil(t, fb)
	assert.Equal(t, "u1", fb.Value)
	assert.Equal(t, fallbackCookieMaxAge, fb.MaxAge)

	// OAuth handshake cookies are cleared once consumed.
	assert.Negative(t, responseCookie(t, w, "oauth_state").MaxAge)
	assert.Negative(t, responseCookie(t, w, "oauth_nonce").MaxAge)
}

func TestCallback_FlaggedSessionGoesToPasswordChange(t *testing.T) {
	svc := newStubAuthService()
	svc.completeFunc = func(_ context.Context, _ ports.ExchangeInput) (domainauth.Session, error) {
		return domainauth.Session{
			ID:                 "sess-1",
			UserID:             "u1",
			MustChangePassword: true,
			ExpiresAt:          time.Now().Add(time.Hour),
		}, nil
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	r.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/portal/projects"})
	w := doRequest(http.HandlerFunc(h.Callback), r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/change-password", w.Header().Get("Location"))
}

func TestPasswordLogin_Success(t *testing.T) {
	svc := newStubAuthService()
	svc.passwordFunc = func(_ context.Context, email, password string) (domainauth.Session, error) {
		assert.Equal(t, "dev@example.com", email)
		assert.Equal(t, "hunter2hunter2", password)
		return domainauth.Session{
			ID:        "sess-1",
			UserID:    "u1",
			Email:     email,
			Role:      domainauth.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}
	h := &AuthHandlers{Svc: svc}

	body := `{"email":"dev@example.com","password":"hunter2hunter2"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.PasswordLogin), r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dev@example.com"`)
	require.NotNil(t, responseCookie(t, w, sessionCookieName))
	require.NotNil(t, responseCookie(t, w, fallbackCookieName))
}

func TestPasswordLogin_BadCredentials(t *testing.T) {
	h := &AuthHandlers{Svc: newStubAuthService()}

	body := `{"email":"dev@example.com","password":"nope"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.PasswordLogin), r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
}

func TestRegister_Created(t *testing.T) {
	svc := newStubAuthService()
	svc.registerFunc = func(_ context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
		return &model.Account{ID: "acct-1", Email: req.Email, Role: "user"}, nil
	}
	h := &AuthHandlers{Svc: svc}

	body := `{"email":"new@example.com","display_name":"New","password":"longenough1"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.Register), r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"acct-1"`)
}

func TestRegister_ValidationError(t *testing.T) {
	svc := newStubAuthService()
	svc.registerFunc = func(_ context.Context, _ *model.CreateAccountRequest) (*model.Account, error) {
		return nil, apperrors.Validation("password too short")
	}
	h := &AuthHandlers{Svc: svc}

	body := `{"email":"new@example.com","display_name":"New","password":"x"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.Register), r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
}

func TestChangePassword_RequiresSessionCookie(t *testing.T) {
	h := &AuthHandlers{Svc: newStubAuthService()}

	body := `{"current_password":"old","new_password":"newlongenough1"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.ChangePassword), r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestChangePassword_Success(t *testing.T) {
	svc := newStubAuthService()
	svc.changeFunc = func(_ context.Context, sessionID, current, next string) (domainauth.Session, error) {
		assert.Equal(t, "sess-1", sessionID)
		assert.Equal(t, "temp-pass-1", current)
		assert.Equal(t, "newlongenough1", next)
		return domainauth.Session{ID: sessionID, UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	h := &AuthHandlers{Svc: svc}

	body := `{"current_password":"temp-pass-1","new_password":"newlongenough1"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.ChangePassword), withSessionCookie(r, "sess-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"must_change_password":false`)
}

func TestChangePasswordRequired(t *testing.T) {
	h := &AuthHandlers{Svc: newStubAuthService()}

	r := httptest.NewRequest(http.MethodGet, "/auth/change-password", nil)
	sess := &domainauth.Session{ID: "sess-1", Email: "dev@example.com", MustChangePassword: true}
	r = r.WithContext(SetSessionInContext(r.Context(), sess))
	w := doRequest(http.HandlerFunc(h.ChangePasswordRequired), r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dev@example.com"`)
	assert.Contains(t, w.Body.String(), "/api/auth/change-password")
}

func TestLogout_ClearsCookiesAndSession(t *testing.T) {
	svc := newStubAuthService()
	svc.addSession(domainauth.Session{ID: "sess-1", UserID: "u1"})
	h := &AuthHandlers{Svc: svc}

	r := withSessionCookie(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "sess-1")
	w := doRequest(http.HandlerFunc(h.Logout), r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, []string{"sess-1"}, svc.logouts)
	assert.Negative(t, responseCookie(t, w, sessionCookieName).MaxAge)
	assert.Negative(t, responseCookie(t, w, fallbackCookieName).MaxAge)
}

func TestLogout_AJAXGetsJSON(t *testing.T) {
	svc := newStubAuthService()
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.Header.Set("Accept", "application/json")
	w := doRequest(http.HandlerFunc(h.Logout), r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed_out")
}

func TestStatus(t *testing.T) {
	svc := newStubAuthService()
	svc.addSession(domainauth.Session{ID: "sess-1", UserID: "u1", Email: "dev@example.com", Role: domainauth.RoleAdmin})
	h := &AuthHandlers{Svc: svc}

	w := doRequest(http.HandlerFunc(h.Status), httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/status", nil), "sess-1")
	w = doRequest(http.HandlerFunc(h.Status), r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"admin"`)
}
