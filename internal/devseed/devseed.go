// Package devseed populates a development database with accounts, team
// members, and showcase projects so the portal is usable immediately after
// a reset. Seeding is idempotent: existing rows are left alone.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/teamdesk/teamdesk/internal/data"
	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// Services bundles the repositories needed for development seeding.
type Services struct {
	DB       *sql.DB
	accounts *data.AccountRepo
	members  *data.MemberRepo
	projects *data.ProjectRepo
}

// NewServices constructs the repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:       db,
		accounts: data.NewAccountRepo(db),
		members:  data.NewMemberRepo(db),
		projects: data.NewProjectRepo(db),
	}
}

// Run seeds development data. Partial failures abort the run so a broken
// database isn't papered over with half-seeded data.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	created, err := seedAccounts(ctx, svcs.accounts, logger)
	if err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}
	logger.InfoContext(ctx, "account seeding complete", "created", created)

	created, err = seedMembers(ctx, svcs.members, logger)
	if err != nil {
		return fmt.Errorf("seed members: %w", err)
	}
	logger.InfoContext(ctx, "member seeding complete", "created", created)

	created, err = seedProjects(ctx, svcs.projects, logger)
	if err != nil {
		return fmt.Errorf("seed projects: %w", err)
	}
	logger.InfoContext(ctx, "project seeding complete", "created", created)

	return nil
}

type accountSeed struct {
	req      model.CreateAccountRequest
	password string
}

func defaultAccounts() []accountSeed {
	return []accountSeed{
		{
			req: model.CreateAccountRequest{
				Email:       "admin@teamdesk.local",
				DisplayName: "Dev Admin",
				Role:        "admin",
			},
			password: "admin-dev-password",
		},
		{
			req: model.CreateAccountRequest{
				Email:       "programmer@teamdesk.local",
				DisplayName: "Dev Programmer",
				Role:        "programmer",
			},
			password: "programmer-dev-password",
		},
		{
			req: model.CreateAccountRequest{
				Email:       "user@teamdesk.local",
				DisplayName: "Dev User",
				Role:        "user",
			},
			password: "user-dev-password",
		},
	}
}

func seedAccounts(ctx context.Context, repo *data.AccountRepo, logger *slog.Logger) (int, error) {
	created := 0
	for _, seed := range defaultAccounts() {
		existing, err := repo.GetByEmail(ctx, seed.req.Email)
		if err != nil && !errors.Is(err, data.ErrAccountNotFound) {
			return created, fmt.Errorf("lookup account %q: %w", seed.req.Email, err)
		}
		if existing != nil {
			logger.DebugContext(ctx, "account already exists", "email", seed.req.Email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return created, fmt.Errorf("hash password for %q: %w", seed.req.Email, err)
		}
		req := seed.req
		req.Password = seed.password
		if _, err := repo.Create(ctx, &req, string(hash)); err != nil {
			return created, fmt.Errorf("create account %q: %w", seed.req.Email, err)
		}
		logger.InfoContext(ctx, "seeded account", "email", seed.req.Email, "role", seed.req.Role)
		created++
	}
	return created, nil
}

func defaultMembers() []*model.CreateMemberRequest {
	return []*model.CreateMemberRequest{
		{
			Name:        "Alice Hargreaves",
			Title:       "Staff Engineer",
			Bio:         "Distributed systems and observability.",
			WebsiteURL:  "https://blog.alice.dev",
			GitHubLogin: "alicehargreaves",
			SortOrder:   1,
		},
		{
			Name:        "Bola Adeyemi",
			Title:       "Backend Engineer",
			Bio:         "APIs, data pipelines, and the occasional frontend fix.",
			GitHubLogin: "boladeyemi",
			SortOrder:   2,
		},
		{
			Name:      "Casey Lindqvist",
			Title:     "Engineering Manager",
			SortOrder: 3,
		},
	}
}

func seedMembers(ctx context.Context, repo *data.MemberRepo, logger *slog.Logger) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list members: %w", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, m := range existing {
		byName[m.Name] = true
	}

	created := 0
	for _, req := range defaultMembers() {
		if byName[req.Name] {
			logger.DebugContext(ctx, "member already exists", "name", req.Name)
			continue
		}
		if _, err := repo.Create(ctx, req); err != nil {
			return created, fmt.Errorf("create member %q: %w", req.Name, err)
		}
		logger.InfoContext(ctx, "seeded member", "name", req.Name)
		created++
	}
	return created, nil
}

func defaultProjects() []*model.CreateProjectRequest {
	return []*model.CreateProjectRequest{
		{
			Name:        "TeamDesk Portal",
			Description: "The team portal itself: showcase, advisory booking, and membership workflows.",
			RepoURL:     "https://github.com/teamdesk/teamdesk",
			GitHubRepo:  "teamdesk/teamdesk",
			Featured:    true,
		},
		{
			Name:        "Pipeline Doctor",
			Description: "CLI that diagnoses stuck CI pipelines and suggests fixes.",
			RepoURL:     "https://github.com/teamdesk/pipeline-doctor",
			GitHubRepo:  "teamdesk/pipeline-doctor",
		},
		{
			Name:        "Internal Design System",
			Description: "Shared component library used across the team's web properties.",
		},
	}
}

func seedProjects(ctx context.Context, repo *data.ProjectRepo, logger *slog.Logger) (int, error) {
	existing, err := repo.List(ctx, 100, 0)
	if err != nil {
		return 0, fmt.Errorf("list projects: %w", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, p := range existing {
		byName[p.Name] = true
	}

	created := 0
	for _, req := range defaultProjects() {
		if byName[req.Name] {
			logger.DebugContext(ctx, "project already exists", "name", req.Name)
			continue
		}
		if _, err := repo.Create(ctx, req); err != nil {
			return created, fmt.Errorf("create project %q: %w", req.Name, err)
		}
		logger.InfoContext(ctx, "seeded project", "name", req.Name)
		created++
	}
	return created, nil
}
