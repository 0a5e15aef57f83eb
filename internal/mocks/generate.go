// Package mocks provides mock implementations for testing the teamdesk portal.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockProjectRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(project, nil)
package mocks

// Generate mock for AccountRepository interface from internal/core package.
// This creates MockAccountRepository with methods for all AccountRepository interface methods:
// Create, GetByID, GetByIdentityKey, GetByEmail, List, SetRole, UpdatePassword
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=account_repository_mock.go github.com/teamdesk/teamdesk/internal/core AccountRepository

// Generate mock for ProjectRepository interface from internal/core package.
// This creates MockProjectRepository with methods for all ProjectRepository interface methods:
// Create, GetByID, List, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=project_repository_mock.go github.com/teamdesk/teamdesk/internal/core ProjectRepository

// Generate mock for MemberRepository interface from internal/core package.
// This creates MockMemberRepository with methods for all MemberRepository interface methods:
// Create, GetByID, List, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=member_repository_mock.go github.com/teamdesk/teamdesk/internal/core MemberRepository

// Generate mock for AdvisoryRepository interface from internal/core package.
// This creates MockAdvisoryRepository with methods for all AdvisoryRepository interface methods:
// Create, GetByID, ListByAccount, ListByStatus, SetStatus
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=advisory_repository_mock.go github.com/teamdesk/teamdesk/internal/core AdvisoryRepository

// Generate mock for ApplicationRepository interface from internal/core package.
// This creates MockApplicationRepository with methods for all ApplicationRepository interface methods:
// Create, GetByID, GetPendingByAccount, ListByStatus, Decide
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=application_repository_mock.go github.com/teamdesk/teamdesk/internal/core ApplicationRepository
