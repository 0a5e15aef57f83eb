package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/mocks"
	"github.com/teamdesk/teamdesk/internal/service"
)

func testRouter(t *testing.T, auth *stubAuthService) (http.Handler, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	projects := mocks.NewMockProjectRepository(ctrl)
	projects.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*model.Project{}, nil).AnyTimes()

	handler := NewRouter(RouterServices{
		Auth:     auth,
		Projects: service.NewProjectService(service.ProjectServiceOptions{Projects: projects}),
		Members:  service.NewMemberService(service.MemberServiceOptions{Members: mocks.NewMockMemberRepository(ctrl)}),
		Advisory: service.NewAdvisoryService(service.AdvisoryServiceOptions{Bookings: mocks.NewMockAdvisoryRepository(ctrl)}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Applications: mocks.NewMockApplicationRepository(ctrl),
			Accounts:     mocks.NewMockAccountRepository(ctrl),
		}),
		Guard:  testGuard(t, nil),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return handler, ctrl
}

func TestRouter_Health(t *testing.T) {
	h, _ := testRouter(t, newStubAuthService())

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestRouter_PublicShowcaseNeedsNoAuth(t *testing.T) {
	h, _ := testRouter(t, newStubAuthService())

	w := doRequest(h, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AdminWritesAreGuarded(t *testing.T) {
	auth := newStubAuthService()
	auth.addSession(domainauth.Session{ID: "user-sess", UserID: "u1", Role: domainauth.RoleUser})
	h, _ := testRouter(t, auth)

	// Anonymous API write.
	w := doRequest(h, httptest.NewRequest(http.MethodPost, "/api/projects", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Authenticated but not admin.
	r := withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/projects", nil), "user-sess")
	w = doRequest(h, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AdvisoryReviewNeedsProgrammer(t *testing.T) {
	auth := newStubAuthService()
	auth.addSession(domainauth.Session{ID: "user-sess", UserID: "u1", Role: domainauth.RoleUser})
	h, _ := testRouter(t, auth)

	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/advisory-sessions", nil), "user-sess")
	w := doRequest(h, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
