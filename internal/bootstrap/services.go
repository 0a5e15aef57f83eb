package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/teamdesk/teamdesk/config"
	"github.com/teamdesk/teamdesk/internal/adapters/github"
	"github.com/teamdesk/teamdesk/internal/adapters/identitybus"
	"github.com/teamdesk/teamdesk/internal/data"
	"github.com/teamdesk/teamdesk/internal/observability/notify"
	"github.com/teamdesk/teamdesk/internal/observability/notify/slack"
	"github.com/teamdesk/teamdesk/internal/observability/statsd"
	"github.com/teamdesk/teamdesk/internal/ports"
	"github.com/teamdesk/teamdesk/internal/service"
	"github.com/teamdesk/teamdesk/internal/session"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Projects     *service.ProjectService
	Members      *service.MemberService
	Advisory     *service.AdvisoryService
	Applications *service.ApplicationService

	// Session-state machinery: the bus carries identity events from the auth
	// service into State, which guards consult.
	Events *identitybus.Bus
	State  *session.State
	Guard  *session.Guard

	// Metrics is the StatsD sink shared across services and HTTP middleware.
	// A nil-conn client is returned when metrics are disabled; emission is a
	// no-op in that case.
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Accounts     *data.AccountRepo
	Projects     *data.ProjectRepo
	Members      *data.MemberRepo
	Advisory     *data.AdvisoryRepo
	Applications *data.ApplicationRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Accounts:     data.NewAccountRepo(db),
		Projects:     data.NewProjectRepo(db),
		Members:      data.NewMemberRepo(db),
		Advisory:     data.NewAdvisoryRepo(db),
		Applications: data.NewApplicationRepo(db),
	}
}

// InitServices wires repositories, adapters, and services into a container.
func InitServices(deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	if deps.DB == nil {
		return nil, errors.New("database connection is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)
	events := identitybus.New()

	metricsSink, err := statsd.NewClient(statsd.Config{
		Enabled: deps.Config.Metrics.Enabled,
		Address: deps.Config.Metrics.Address,
		Prefix:  deps.Config.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect statsd: %w", err)
	}

	auth := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		Guard:       deps.Config.Guard,
		RedisClient: deps.RedisClient,
		Accounts:    repos.Accounts,
		Records:     repos.Accounts,
		Events:      events,
		Logger:      logger,
	})
	if auth.Service == nil {
		return nil, errors.New("auth service configuration is invalid")
	}

	guard := session.NewGuard(session.GuardOptions{
		Fallback:     auth.Fallback,
		IdentityWait: deps.Config.Guard.IdentityWait,
		Logger:       logger,
	})
	state := session.NewState(auth.Resolver, logger)

	return &ServiceContainer{
		Auth: auth.Service,
		Projects: service.NewProjectService(service.ProjectServiceOptions{
			Projects: repos.Projects,
			Repos:    buildRepoStatsFetcher(deps.Config.GitHub),
			Logger:   logger,
		}),
		Members:  service.NewMemberService(service.MemberServiceOptions{Members: repos.Members}),
		Advisory: service.NewAdvisoryService(service.AdvisoryServiceOptions{Bookings: repos.Advisory}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Applications: repos.Applications,
			Accounts:     repos.Accounts,
			Notifier:     buildApplicationNotifier(deps.Config.Notify, logger),
			Metrics:      metricsSink,
			Logger:       logger,
		}),
		Events:  events,
		State:   state,
		Guard:   guard,
		Metrics: metricsSink,
	}, nil
}

// buildApplicationNotifier returns nil when no webhook is configured, which
// the application service treats as "notifications off".
//
//nolint:ireturn // nil disables notifications; a concrete return type cannot express that.
func buildApplicationNotifier(cfg config.NotifyConfig, logger *slog.Logger) notify.Sink {
	if strings.TrimSpace(cfg.SlackWebhookURL) == "" {
		return nil
	}

	sink, err := slack.NewClient(slack.Config{
		WebhookURL:      cfg.SlackWebhookURL,
		Channel:         cfg.SlackChannel,
		Username:        cfg.SlackUsername,
		Timeout:         cfg.Timeout,
		RetryLimit:      cfg.RetryLimit,
		ReviewURLPrefix: cfg.ReviewURLPrefix,
	})
	if err != nil {
		logger.Warn("slack notifier disabled", "error", err)
		return nil
	}
	return sink
}

// buildRepoStatsFetcher returns nil when enrichment is disabled, which the
// project service treats as "serve stored data only".
//
//nolint:ireturn // nil disables enrichment; a concrete return type cannot express that.
func buildRepoStatsFetcher(cfg config.GitHubConfig) service.RepoStatsFetcher {
	if !cfg.Enabled {
		return nil
	}

	opts := []github.Option{
		github.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Token != "" {
		opts = append(opts, github.WithToken(cfg.Token))
	}
	return repoStatsFetcher{client: github.NewClient(opts...)}
}

// repoStatsFetcher adapts the GitHub client to the project service port.
type repoStatsFetcher struct {
	client *github.Client
}

func (f repoStatsFetcher) Stats(ctx context.Context, fullName string) (service.RepoStats, error) {
	repo, err := f.client.GetRepo(ctx, fullName)
	if err != nil {
		return service.RepoStats{}, err
	}
	return service.RepoStats{
		Stars:       repo.Stars,
		Forks:       repo.Forks,
		OpenIssues:  repo.OpenIssues,
		Description: repo.Description,
	}, nil
}

// RunSessionState drains identity events into session state until ctx is
// done. Context cancellation is the normal shutdown path, not an error.
func RunSessionState(ctx context.Context, state *session.State, events ports.IdentityEvents) error {
	err := state.Run(ctx, events)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases container resources.
func (c *ServiceContainer) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		c.Events.Close()
	}
	if c.Metrics != nil {
		_ = c.Metrics.Close()
	}
}
