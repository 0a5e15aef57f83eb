package core

import (
	"context"

	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// AccountRepository defines the interface for portal account data operations.
type AccountRepository interface {
	Create(ctx context.Context, req *model.CreateAccountRequest, passwordHash string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByIdentityKey(ctx context.Context, key string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context, limit, offset int) ([]*model.Account, error)
	SetRole(ctx context.Context, id, role string) (bool, error)
	// UpdatePassword replaces the stored hash and clears the
	// must-change-password flag in the same statement.
	UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error)
}

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	Create(ctx context.Context, req *model.CreateProjectRequest) (*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, limit, offset int) ([]*model.Project, error)
	Update(ctx context.Context, id string, req *model.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemberRepository defines the interface for team member data operations.
type MemberRepository interface {
	Create(ctx context.Context, req *model.CreateMemberRequest) (*model.Member, error)
	GetByID(ctx context.Context, id string) (*model.Member, error)
	List(ctx context.Context) ([]*model.Member, error)
	Update(ctx context.Context, id string, req *model.UpdateMemberRequest) (*model.Member, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AdvisoryRepository defines the interface for advisory-session data operations.
type AdvisoryRepository interface {
	Create(ctx context.Context, accountID string, req *model.BookAdvisoryRequest) (*model.AdvisorySession, error)
	GetByID(ctx context.Context, id string) (*model.AdvisorySession, error)
	ListByAccount(ctx context.Context, accountID string) ([]*model.AdvisorySession, error)
	ListByStatus(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]*model.AdvisorySession, error)
	// SetStatus moves a booking from one status to another, returning false
	// when the booking was not in the expected source status.
	SetStatus(ctx context.Context, id string, from, to model.AdvisoryStatus) (bool, error)
}

// ApplicationRepository defines the interface for membership application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, accountID string, req *model.SubmitApplicationRequest) (*model.MembershipApplication, error)
	GetByID(ctx context.Context, id string) (*model.MembershipApplication, error)
	GetPendingByAccount(ctx context.Context, accountID string) (*model.MembershipApplication, error)
	ListByStatus(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]*model.MembershipApplication, error)
	// Decide moves a pending application to accepted or rejected; false means
	// the application was no longer pending.
	Decide(ctx context.Context, id string, decision model.ApplicationStatus) (bool, error)
}
