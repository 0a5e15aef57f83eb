// Package testutil provides testing utilities and helpers for the teamdesk portal.
package testutil

import (
	"fmt"
	"time"

	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// AccountRequestBuilder provides a fluent interface for building CreateAccountRequest objects for testing.
type AccountRequestBuilder struct {
	req *model.CreateAccountRequest
}

// NewAccountRequest creates a new AccountRequestBuilder with sensible defaults.
func NewAccountRequest() *AccountRequestBuilder {
	return &AccountRequestBuilder{
		req: &model.CreateAccountRequest{
			Email:       "member@example.com",
			DisplayName: "Test Member",
			Password:    "correct-horse-battery",
		},
	}
}

// WithEmail sets the account email.
func (b *AccountRequestBuilder) WithEmail(email string) *AccountRequestBuilder {
	b.req.Email = email
	return b
}

// WithDisplayName sets the display name.
func (b *AccountRequestBuilder) WithDisplayName(name string) *AccountRequestBuilder {
	b.req.DisplayName = name
	return b
}

// WithPassword sets the password.
func (b *AccountRequestBuilder) WithPassword(pw string) *AccountRequestBuilder {
	b.req.Password = pw
	return b
}

// WithRole sets the initial role.
func (b *AccountRequestBuilder) WithRole(role string) *AccountRequestBuilder {
	b.req.Role = role
	return b
}

// WithMustChangePassword marks the account as provisioned with a temporary password.
func (b *AccountRequestBuilder) WithMustChangePassword() *AccountRequestBuilder {
	b.req.MustChangePassword = true
	return b
}

// UniqueEmail gives the request an email unique to the given suffix, useful
// when a shared test database is in play.
func (b *AccountRequestBuilder) UniqueEmail(suffix string) *AccountRequestBuilder {
	b.req.Email = fmt.Sprintf("member-%s@example.com", suffix)
	return b
}

// Build returns the constructed request.
func (b *AccountRequestBuilder) Build() *model.CreateAccountRequest {
	return b.req
}

// ProjectRequestBuilder provides a fluent interface for building CreateProjectRequest objects for testing.
type ProjectRequestBuilder struct {
	req *model.CreateProjectRequest
}

// NewProjectRequest creates a new ProjectRequestBuilder with sensible defaults.
func NewProjectRequest() *ProjectRequestBuilder {
	return &ProjectRequestBuilder{
		req: &model.CreateProjectRequest{
			Name:        "Test Project",
			Description: "A project used in tests",
		},
	}
}

// WithName sets the project name.
func (b *ProjectRequestBuilder) WithName(name string) *ProjectRequestBuilder {
	b.req.Name = name
	return b
}

// WithDescription sets the project description.
func (b *ProjectRequestBuilder) WithDescription(desc string) *ProjectRequestBuilder {
	b.req.Description = desc
	return b
}

// WithGitHubRepo links the project to a GitHub repository in "owner/name" form.
func (b *ProjectRequestBuilder) WithGitHubRepo(repo string) *ProjectRequestBuilder {
	b.req.GitHubRepo = repo
	return b
}

// Featured marks the project as featured.
func (b *ProjectRequestBuilder) Featured() *ProjectRequestBuilder {
	b.req.Featured = true
	return b
}

// Build returns the constructed request.
func (b *ProjectRequestBuilder) Build() *model.CreateProjectRequest {
	return b.req
}

// MemberRequestBuilder provides a fluent interface for building CreateMemberRequest objects for testing.
type MemberRequestBuilder struct {
	req *model.CreateMemberRequest
}

// NewMemberRequest creates a new MemberRequestBuilder with sensible defaults.
func NewMemberRequest() *MemberRequestBuilder {
	return &MemberRequestBuilder{
		req: &model.CreateMemberRequest{
			Name:  "Test Member",
			Title: "Engineer",
		},
	}
}

// WithName sets the member name.
func (b *MemberRequestBuilder) WithName(name string) *MemberRequestBuilder {
	b.req.Name = name
	return b
}

// WithTitle sets the member title.
func (b *MemberRequestBuilder) WithTitle(title string) *MemberRequestBuilder {
	b.req.Title = title
	return b
}

// WithWebsite sets the member website URL.
func (b *MemberRequestBuilder) WithWebsite(url string) *MemberRequestBuilder {
	b.req.WebsiteURL = url
	return b
}

// WithSortOrder sets the roster position.
func (b *MemberRequestBuilder) WithSortOrder(order int) *MemberRequestBuilder {
	b.req.SortOrder = order
	return b
}

// Build returns the constructed request.
func (b *MemberRequestBuilder) Build() *model.CreateMemberRequest {
	return b.req
}

// AdvisoryRequestBuilder provides a fluent interface for building BookAdvisoryRequest objects for testing.
type AdvisoryRequestBuilder struct {
	req *model.BookAdvisoryRequest
}

// NewAdvisoryRequest creates a new AdvisoryRequestBuilder with a slot one day out.
func NewAdvisoryRequest() *AdvisoryRequestBuilder {
	return &AdvisoryRequestBuilder{
		req: &model.BookAdvisoryRequest{
			Topic:       "Architecture review",
			ScheduledAt: time.Now().Add(24 * time.Hour).UTC(),
		},
	}
}

// WithTopic sets the session topic.
func (b *AdvisoryRequestBuilder) WithTopic(topic string) *AdvisoryRequestBuilder {
	b.req.Topic = topic
	return b
}

// WithDetails sets the session details.
func (b *AdvisoryRequestBuilder) WithDetails(details string) *AdvisoryRequestBuilder {
	b.req.Details = details
	return b
}

// WithScheduledAt sets the slot time.
func (b *AdvisoryRequestBuilder) WithScheduledAt(at time.Time) *AdvisoryRequestBuilder {
	b.req.ScheduledAt = at
	return b
}

// Build returns the constructed request.
func (b *AdvisoryRequestBuilder) Build() *model.BookAdvisoryRequest {
	return b.req
}
