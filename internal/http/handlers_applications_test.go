package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	apperrors "github.com/teamdesk/teamdesk/internal/errors"
	"github.com/teamdesk/teamdesk/internal/mocks"
	"github.com/teamdesk/teamdesk/internal/service"
)

func applicationHandlers(t *testing.T) (*ApplicationHandlers, *mocks.MockApplicationRepository, *mocks.MockAccountRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	apps := mocks.NewMockApplicationRepository(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)
	svc := service.NewApplicationService(service.ApplicationServiceOptions{
		Applications: apps,
		Accounts:     accounts,
	})
	return &ApplicationHandlers{Svc: svc}, apps, accounts
}

func TestApplicationSubmit(t *testing.T) {
	h, apps, _ := applicationHandlers(t)
	apps.EXPECT().GetPendingByAccount(gomock.Any(), "u1").
		Return(nil, apperrors.NotFound("no open application"))
	apps.EXPECT().Create(gomock.Any(), "u1", gomock.Any()).
		DoAndReturn(func(_ any, accountID string, req *model.SubmitApplicationRequest) (*model.MembershipApplication, error) {
			return &model.MembershipApplication{
				ID:         "app-1",
				AccountID:  accountID,
				Motivation: req.Motivation,
				Status:     model.ApplicationStatusPending,
			}, nil
		})

	body := `{"motivation":"I want to contribute to the toolchain"}`
	r := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.Submit), withUserSession(r, "u1"))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"app-1"`)
}

func TestApplicationSubmit_AlreadyPending(t *testing.T) {
	h, apps, _ := applicationHandlers(t)
	apps.EXPECT().GetPendingByAccount(gomock.Any(), "u1").
		Return(&model.MembershipApplication{ID: "app-1", AccountID: "u1"}, nil)

	body := `{"motivation":"again"}`
	r := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.Submit), withUserSession(r, "u1"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "application_pending")
}

func TestApplicationSubmit_RequiresSession(t *testing.T) {
	h, _, _ := applicationHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(`{"motivation":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.Submit), r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationDecide_AcceptPromotes(t *testing.T) {
	h, apps, accounts := applicationHandlers(t)
	pending := &model.MembershipApplication{ID: "app-1", AccountID: "u1", Status: model.ApplicationStatusPending}
	accepted := &model.MembershipApplication{ID: "app-1", AccountID: "u1", Status: model.ApplicationStatusAccepted}
	gomock.InOrder(
		apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(pending, nil),
		apps.EXPECT().Decide(gomock.Any(), "app-1", model.ApplicationStatusAccepted).Return(true, nil),
		accounts.EXPECT().SetRole(gomock.Any(), "u1", "programmer").Return(true, nil),
		apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(accepted, nil),
	)

	r := httptest.NewRequest(http.MethodPut, "/api/applications/app-1/decision", strings.NewReader(`{"decision":"accepted"}`))
	r.Header.Set("Content-Type", "application/json")
	r.SetPathValue("id", "app-1")
	w := doRequest(http.HandlerFunc(h.Decide), r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted"`)
}

func TestApplicationDecide_InvalidDecision(t *testing.T) {
	h, _, _ := applicationHandlers(t)

	for _, decision := range []string{"pending", "maybe"} {
		r := httptest.NewRequest(http.MethodPut, "/api/applications/app-1/decision",
			strings.NewReader(`{"decision":"`+decision+`"}`))
		r.Header.Set("Content-Type", "application/json")
		r.SetPathValue("id", "app-1")
		w := doRequest(http.HandlerFunc(h.Decide), r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_decision")
	}
}

func TestApplicationDecide_AlreadyDecided(t *testing.T) {
	h, apps, _ := applicationHandlers(t)
	decided := &model.MembershipApplication{ID: "app-1", AccountID: "u1", Status: model.ApplicationStatusRejected}
	gomock.InOrder(
		apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(decided, nil),
		apps.EXPECT().Decide(gomock.Any(), "app-1", model.ApplicationStatusRejected).Return(false, nil),
	)

	r := httptest.NewRequest(http.MethodPut, "/api/applications/app-1/decision", strings.NewReader(`{"decision":"rejected"}`))
	r.Header.Set("Content-Type", "application/json")
	r.SetPathValue("id", "app-1")
	w := doRequest(http.HandlerFunc(h.Decide), r)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApplicationList_DefaultsToPending(t *testing.T) {
	h, apps, _ := applicationHandlers(t)
	apps.EXPECT().ListByStatus(gomock.Any(), model.ApplicationStatusPending, 50, 0).
		Return([]*model.MembershipApplication{}, nil)

	w := doRequest(http.HandlerFunc(h.List), httptest.NewRequest(http.MethodGet, "/api/applications", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"applications"`)
}
