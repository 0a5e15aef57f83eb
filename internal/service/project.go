package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teamdesk/teamdesk/internal/core"
	"github.com/teamdesk/teamdesk/internal/domain/model"
)

const (
	// repoFetchConcurrency caps parallel GitHub calls per listing.
	repoFetchConcurrency = 4
	repoFetchTimeout     = 5 * time.Second
)

// RepoStats is the live repository metadata merged into project listings.
type RepoStats struct {
	Stars       int
	Forks       int
	OpenIssues  int
	Description string
}

// RepoStatsFetcher fetches live stats for a "owner/name" repository.
type RepoStatsFetcher interface {
	Stats(ctx context.Context, fullName string) (RepoStats, error)
}

// ProjectServiceOptions groups dependencies for ProjectService.
type ProjectServiceOptions struct {
	Projects core.ProjectRepository
	// Repos is optional; nil disables live enrichment entirely.
	Repos  RepoStatsFetcher
	Logger *slog.Logger
}

// ProjectService serves the project showcase: persisted rows merged with
// live GitHub metadata. Enrichment is best effort; a GitHub outage degrades
// the listing to stored data instead of failing it.
type ProjectService struct {
	projects core.ProjectRepository
	repos    RepoStatsFetcher
	logger   *slog.Logger
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(opts ProjectServiceOptions) *ProjectService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		projects: opts.Projects,
		repos:    opts.Repos,
		logger:   logger.With("component", "project_service"),
	}
}

// Create creates a project.
func (s *ProjectService) Create(ctx context.Context, req *model.CreateProjectRequest) (*model.Project, error) {
	return s.projects.Create(ctx, req)
}

// Update applies a partial update.
func (s *ProjectService) Update(ctx context.Context, id string, req *model.UpdateProjectRequest) (*model.Project, error) {
	return s.projects.Update(ctx, id, req)
}

// Delete deletes a project by ID.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	return s.projects.Delete(ctx, id)
}

// GetByID retrieves a project with live stats merged in.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, []*model.Project{project})
	return project, nil
}

// List returns a page of projects with live stats merged in concurrently.
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]*model.Project, error) {
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, projects)
	return projects, nil
}

// enrich fills live stats for projects linked to a GitHub repository. Each
// fetch gets its own timeout so one slow call cannot hold up the page.
func (s *ProjectService) enrich(ctx context.Context, projects []*model.Project) {
	if s.repos == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(repoFetchConcurrency)

	for _, p := range projects {
		if p == nil || p.GitHubRepo == "" {
			continue
		}
		project := p
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, repoFetchTimeout)
			defer cancel()

			stats, err := s.repos.Stats(fetchCtx, project.GitHubRepo)
			if err != nil {
				// Stored data remains the fallback.
				s.logger.DebugContext(ctx, "repo stats unavailable",
					"repo", project.GitHubRepo, "err", err)
				return nil
			}
			project.Stars = stats.Stars
			if project.Description == "" && stats.Description != "" {
				project.Description = stats.Description
			}
			return nil
		})
	}
	_ = g.Wait()
}
