package httpx

import (
	"log/slog"
	"net/http"

	"github.com/teamdesk/teamdesk/internal/observability/statsd"
	"github.com/teamdesk/teamdesk/internal/service"
	"github.com/teamdesk/teamdesk/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Projects     *service.ProjectService
	Members      *service.MemberService
	Advisory     *service.AdvisoryService
	Applications *service.ApplicationService
	Guard        *session.Guard
	CookieDomain string
	Logger       *slog.Logger // Logger for HTTP middleware (optional)
	Metrics      statsd.Sink  // Metrics sink for HTTP middleware (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}
	registerAuthRoutes(mux, authHandlers, services)

	registerProjectRoutes(mux, &ProjectHandlers{Svc: services.Projects}, services)
	registerMemberRoutes(mux, &MemberHandlers{Svc: services.Members}, services)
	registerAdvisoryRoutes(mux, &AdvisoryHandlers{Svc: services.Advisory}, services)
	registerApplicationRoutes(mux, &ApplicationHandlers{Svc: services.Applications}, services)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return Logging(logger)(Metrics(services.Metrics)(Recover(logger)(mux)))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, services RouterServices) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /api/auth/login", h.PasswordLogin)
	mux.HandleFunc("POST /api/auth/register", h.Register)

	// Any authenticated account may change its password; the forced-change
	// landing route below is additionally gated so it only renders for
	// sessions still carrying the provisioning flag.
	mux.Handle("POST /api/auth/change-password",
		RequireAuth(services.Auth)(http.HandlerFunc(h.ChangePassword)))
	mux.Handle("GET /auth/change-password",
		RequireMustChangePassword(services.Auth, services.Guard)(http.HandlerFunc(h.ChangePasswordRequired)))

	accountHandlers := &AccountHandlers{Svc: services.Auth}
	admin := RequireAdmin(services.Auth, services.Guard)
	mux.Handle("GET /api/accounts", admin(http.HandlerFunc(accountHandlers.List)))
	mux.Handle("PUT /api/accounts/{id}/role", admin(http.HandlerFunc(accountHandlers.SetRole)))
	mux.Handle("POST /api/accounts/provision", admin(http.HandlerFunc(accountHandlers.Provision)))
}

func registerProjectRoutes(mux *http.ServeMux, h *ProjectHandlers, services RouterServices) {
	admin := RequireAdmin(services.Auth, services.Guard)

	// Public showcase reads; admin-only writes.
	mux.HandleFunc("GET /api/projects", h.List)
	mux.HandleFunc("GET /api/projects/{id}", h.GetByID)
	mux.Handle("POST /api/projects", admin(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/projects/{id}", admin(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/projects/{id}", admin(http.HandlerFunc(h.Delete)))
}

func registerMemberRoutes(mux *http.ServeMux, h *MemberHandlers, services RouterServices) {
	admin := RequireAdmin(services.Auth, services.Guard)

	mux.HandleFunc("GET /api/members", h.List)
	mux.HandleFunc("GET /api/members/{id}", h.GetByID)
	mux.Handle("POST /api/members", admin(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/members/{id}", admin(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/members/{id}", admin(http.HandlerFunc(h.Delete)))
}

func registerAdvisoryRoutes(mux *http.ServeMux, h *AdvisoryHandlers, services RouterServices) {
	authed := RequireAuth(services.Auth)
	programmer := RequireProgrammer(services.Auth, services.Guard)

	mux.Handle("POST /api/advisory-sessions", authed(http.HandlerFunc(h.Book)))
	mux.Handle("GET /api/advisory-sessions/mine", authed(http.HandlerFunc(h.ListMine)))
	mux.Handle("GET /api/advisory-sessions", programmer(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/advisory-sessions/{id}", programmer(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/advisory-sessions/{id}/status", programmer(http.HandlerFunc(h.Transition)))
}

func registerApplicationRoutes(mux *http.ServeMux, h *ApplicationHandlers, services RouterServices) {
	authed := RequireAuth(services.Auth)
	admin := RequireAdmin(services.Auth, services.Guard)

	mux.Handle("POST /api/applications", authed(http.HandlerFunc(h.Submit)))
	mux.Handle("GET /api/applications/mine", authed(http.HandlerFunc(h.GetMine)))
	mux.Handle("GET /api/applications", admin(http.HandlerFunc(h.List)))
	mux.Handle("PUT /api/applications/{id}/decision", admin(http.HandlerFunc(h.Decide)))
}
