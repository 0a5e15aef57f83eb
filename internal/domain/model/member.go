//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxMemberNameLen = 120

// Member is a team member shown on the public roster.
type Member struct {
	ID          string    `json:"id"                       db:"id"`
	Name        string    `json:"name"                     db:"name"`
	Title       string    `json:"title"                    db:"title"`
	Bio         string    `json:"bio,omitempty"            db:"bio"`
	AvatarURL   string    `json:"avatar_url,omitempty"     db:"avatar_url"`
	WebsiteURL  string    `json:"website_url,omitempty"    db:"website_url"`
	GitHubLogin string    `json:"github_login,omitempty"   db:"github_login"`
	SortOrder   int       `json:"sort_order"               db:"sort_order"`
	// WebsiteDomain is the registrable domain of WebsiteURL, derived for
	// display; not persisted.
	WebsiteDomain string    `json:"website_domain,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"               db:"updated_at"`
}

// CreateMemberRequest represents parameters to create a Member.
type CreateMemberRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	WebsiteURL  string `json:"website_url,omitempty"`
	GitHubLogin string `json:"github_login,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// Validate checks the create request fields.
func (r *CreateMemberRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("member name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxMemberNameLen {
		return errors.New("member name is too long")
	}
	return nil
}

// UpdateMemberRequest represents parameters to update a Member.
// Nil fields are left unchanged.
type UpdateMemberRequest struct {
	Name        *string `json:"name,omitempty"`
	Title       *string `json:"title,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	WebsiteURL  *string `json:"website_url,omitempty"`
	GitHubLogin *string `json:"github_login,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

// Validate checks the update request fields.
func (r *UpdateMemberRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("member name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxMemberNameLen {
			return errors.New("member name is too long")
		}
		*r.Name = name
	}
	return nil
}
