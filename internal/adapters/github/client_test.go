package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/teamdesk/portal", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"full_name": "teamdesk/portal",
			"description": "Team portal",
			"stargazers_count": 42,
			"forks_count": 7,
			"open_issues_count": 3,
			"html_url": "https://github.com/teamdesk/portal"
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithToken("tok-123"))

	repo, err := client.GetRepo(context.Background(), "teamdesk/portal")
	require.NoError(t, err)
	assert.Equal(t, "teamdesk/portal", repo.FullName)
	assert.Equal(t, 42, repo.Stars)
	assert.Equal(t, 7, repo.Forks)
}

func TestClient_GetRepo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.GetRepo(context.Background(), "nobody/nothing")
	assert.ErrorIs(t, err, ErrRepoNotFound)
}

func TestClient_GetRepo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.GetRepo(context.Background(), "teamdesk/portal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_GetRepo_BadName(t *testing.T) {
	client := NewClient()

	for _, name := range []string{"", "no-slash", "/name", "owner/"} {
		_, err := client.GetRepo(context.Background(), name)
		assert.Error(t, err, "name %q", name)
	}
}
