// Package github is a minimal REST client for the repository metadata the
// portal shows next to projects.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// ErrRepoNotFound is returned when the repository does not exist or is not visible.
var ErrRepoNotFound = errors.New("github repository not found")

// Repo is the subset of repository metadata the portal displays.
type Repo struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	OpenIssues  int    `json:"open_issues_count"`
	HTMLURL     string `json:"html_url"`
}

// Client calls the GitHub REST API. The zero token is fine for public
// repositories, within unauthenticated rate limits.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests, GitHub Enterprise).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithToken sets a bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a GitHub API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRepo fetches metadata for a repository in "owner/name" form.
func (c *Client) GetRepo(ctx context.Context, fullName string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || name == "" {
		return Repo{}, fmt.Errorf("repository must be in \"owner/name\" form, got %q", fullName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, name), nil)
	if err != nil {
		return Repo{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Repo{}, fmt.Errorf("github request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Repo{}, ErrRepoNotFound
	case resp.StatusCode != http.StatusOK:
		return Repo{}, fmt.Errorf("github responded %d for %s", resp.StatusCode, fullName)
	}

	var repo Repo
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return Repo{}, fmt.Errorf("decode repository: %w", err)
	}
	return repo, nil
}
