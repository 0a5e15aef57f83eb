package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/teamdesk/teamdesk/config"
	"github.com/teamdesk/teamdesk/internal/adapters/authroles"
	"github.com/teamdesk/teamdesk/internal/adapters/devauth"
	"github.com/teamdesk/teamdesk/internal/adapters/oidc"
	redisadapter "github.com/teamdesk/teamdesk/internal/adapters/redis"
	"github.com/teamdesk/teamdesk/internal/core"
	"github.com/teamdesk/teamdesk/internal/ports"
	"github.com/teamdesk/teamdesk/internal/service"
	"github.com/teamdesk/teamdesk/internal/session"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Guard       config.GuardConfig
	RedisClient redis.UniversalClient
	Accounts    core.AccountRepository
	// Records backs role resolution and auto-provisioning. In production this
	// is the account repository; the accounts table doubles as the persisted
	// role record store.
	Records ports.RecordStore
	Events  service.IdentityPublisher
	Logger  *slog.Logger
}

// AuthContainer groups the auth service with the session-state collaborators
// built alongside it.
type AuthContainer struct {
	Service  *service.AuthService
	Fallback ports.FallbackStore
	Resolver *session.Resolver
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns a zero container if auth is not configured or configuration is
// invalid.
func BuildAuthService(cfg AuthConfig) AuthContainer {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return AuthContainer{}
	}

	provider := buildAuthProvider(cfg)
	if provider == nil {
		return AuthContainer{}
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")
	fallbackStore := redisadapter.NewFallbackStoreWithTTL(cfg.RedisClient, cfg.Guard.FallbackTTL, cfg.Logger)
	resolver := session.NewResolver(cfg.Records, cfg.Logger)

	var mapper ports.RoleMapper
	if claimsMapper, err := authroles.NewClaimsMapper(cfg.Auth.RoleClaimExpr); err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("role claim expression invalid; roles come from persisted records only",
				"expr", cfg.Auth.RoleClaimExpr, "error", err)
		}
	} else {
		mapper = claimsMapper
	}

	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessionStore,
		Accounts: cfg.Accounts,
		Resolver: resolver,
		Fallback: fallbackStore,
		Mapper:   mapper,
		Events:   cfg.Events,
		Logger:   cfg.Logger,
	})

	return AuthContainer{Service: svc, Fallback: fallbackStore, Resolver: resolver}
}

//nolint:ireturn // provider selection is the point of this function.
func buildAuthProvider(cfg AuthConfig) ports.AuthProvider {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			DisplayName:     cfg.Auth.DevAuth.DisplayName,
			Email:           cfg.Auth.DevAuth.Email,
			Role:            cfg.Auth.DevAuth.Role,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	case config.AuthModeOAuth:
		// Only enable when fully configured
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			if cfg.Logger != nil {
				cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
					"discovery_url_empty", oauth.DiscoveryURL == "",
					"client_id_empty", oauth.ClientID == "",
					"client_secret_empty", oauth.ClientSecret == "",
				)
			}
			return nil
		}

		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LogoutURL:    oauth.LogoutURL,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
			}
			return nil
		}
		return prov

	default:
		return nil
	}
}
