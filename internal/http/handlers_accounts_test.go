package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdesk/teamdesk/internal/domain/model"
)

func TestAccountList(t *testing.T) {
	svc := newStubAuthService()
	svc.listFunc = func(_ context.Context, limit, offset int) ([]*model.Account, error) {
		assert.Equal(t, 50, limit)
		assert.Equal(t, 0, offset)
		return []*model.Account{{ID: "acct-1", Email: "dev@example.com", Role: "programmer"}}, nil
	}
	h := &AccountHandlers{Svc: svc}

	w := doRequest(http.HandlerFunc(h.List), httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accounts"`)
	assert.Contains(t, w.Body.String(), `"acct-1"`)
}

func TestAccountSetRole(t *testing.T) {
	svc := newStubAuthService()
	var gotID, gotRole string
	svc.setRoleFunc = func(_ context.Context, accountID, role string) error {
		gotID, gotRole = accountID, role
		return nil
	}
	h := &AccountHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodPut, "/api/accounts/acct-1/role", strings.NewReader(`{"role":"admin"}`))
	r.Header.Set("Content-Type", "application/json")
	r.SetPathValue("id", "acct-1")
	w := doRequest(http.HandlerFunc(h.SetRole), r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acct-1", gotID)
	assert.Equal(t, "admin", gotRole)
}

func TestAccountSetRole_UnknownRole(t *testing.T) {
	h := &AccountHandlers{Svc: newStubAuthService()}

	r := httptest.NewRequest(http.MethodPut, "/api/accounts/acct-1/role", strings.NewReader(`{"role":"superuser"}`))
	r.Header.Set("Content-Type", "application/json")
	r.SetPathValue("id", "acct-1")
	w := doRequest(http.HandlerFunc(h.SetRole), r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_role")
}

func TestAccountProvision(t *testing.T) {
	svc := newStubAuthService()
	svc.provisionFunc = func(_ context.Context, email, displayName, tempPassword string) (*model.Account, error) {
		assert.Equal(t, "new-dev@example.com", email)
		assert.Equal(t, "New Dev", displayName)
		assert.Equal(t, "temp-pass-12", tempPassword)
		return &model.Account{
			ID:                 "acct-2",
			Email:              email,
			DisplayName:        displayName,
			Role:               "programmer",
			MustChangePassword: true,
		}, nil
	}
	h := &AccountHandlers{Svc: svc}

	body := `{"email":"new-dev@example.com","display_name":"New Dev","temp_password":"temp-pass-12"}`
	r := httptest.NewRequest(http.MethodPost, "/api/accounts/provision", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := doRequest(http.HandlerFunc(h.Provision), r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"must_change_password":true`)
}
