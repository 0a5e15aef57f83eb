//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxProjectNameLen = 120
	maxProjectDescLen = 2000
)

// Project is a showcased piece of team work, optionally linked to a GitHub
// repository whose live metadata enriches the public listing.
type Project struct {
	ID          string    `json:"id"                    db:"id"`
	Name        string    `json:"name"                  db:"name"`
	Description string    `json:"description"           db:"description"`
	RepoURL     string    `json:"repo_url,omitempty"    db:"repo_url"`
	GitHubRepo  string    `json:"github_repo,omitempty" db:"github_repo"` // "owner/name"
	Featured    bool      `json:"featured"              db:"featured"`
	Stars       int       `json:"stars"                 db:"-"` // live GitHub data, not persisted
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// CreateProjectRequest represents parameters to create a Project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RepoURL     string `json:"repo_url,omitempty"`
	GitHubRepo  string `json:"github_repo,omitempty"`
	Featured    bool   `json:"featured"`
}

// Validate checks the create request fields.
func (r *CreateProjectRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("project name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxProjectNameLen {
		return errors.New("project name is too long")
	}
	if utf8.RuneCountInString(r.Description) > maxProjectDescLen {
		return errors.New("project description is too long")
	}
	if r.GitHubRepo != "" && !strings.Contains(r.GitHubRepo, "/") {
		return errors.New(`github_repo must be in "owner/name" form`)
	}
	return nil
}

// UpdateProjectRequest represents parameters to update a Project.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	RepoURL     *string `json:"repo_url,omitempty"`
	GitHubRepo  *string `json:"github_repo,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
}

// Validate checks the update request fields.
func (r *UpdateProjectRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("project name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxProjectNameLen {
			return errors.New("project name is too long")
		}
		*r.Name = name
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxProjectDescLen {
		return errors.New("project description is too long")
	}
	if r.GitHubRepo != nil && *r.GitHubRepo != "" && !strings.Contains(*r.GitHubRepo, "/") {
		return errors.New(`github_repo must be in "owner/name" form`)
	}
	return nil
}
