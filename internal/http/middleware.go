package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/observability/metrics"
	"github.com/teamdesk/teamdesk/internal/observability/statsd"
	"github.com/teamdesk/teamdesk/internal/session"
)

// Cookie names shared by the auth handlers and the guard middleware.
const (
	sessionCookieName = "session_id"
	// fallbackCookieName carries the identity key for the persisted fallback
	// store, so the programmer guard can still decide when the session
	// lookup lags or fails.
	fallbackCookieName = "fallback_key"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Metrics returns a middleware that emits request count and latency metrics.
// A nil sink disables emission. Route tags use the matched mux pattern so
// cardinality stays bounded regardless of path parameters.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			metrics.EmitHTTPRequest(sink, metrics.HTTPRequest{
				Method:   r.Method,
				Route:    r.Pattern,
				Status:   ww.status,
				Duration: time.Since(start),
			})
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires an authenticated session.
// Unauthenticated API requests get a 401; browser requests are sent to login.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSessionFromRequest(r, authSvc)
			if sess == nil {
				denyUnauthenticated(w, r)
				return
			}
			ctx := SetSessionInContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns a middleware that adds the session to the context when
// one is present and lets the request through either way.
func OptionalAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := getSessionFromRequest(r, authSvc); sess != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns a middleware that admits only admins, per the admin
// guard: anonymous requests go to login, authenticated non-admins home.
func RequireAdmin(authSvc AuthServiceInterface, guard *session.Guard) func(http.Handler) http.Handler {
	return guardMiddleware(authSvc, func(ctx context.Context, st session.AuthState, _ *http.Request) session.Decision {
		return guard.Admin(ctx, st)
	})
}

// RequireProgrammer returns a middleware that admits programmers and admins.
// When the session lookup yields nothing, the guard consults the persisted
// fallback record named by the fallback cookie before treating the request
// as anonymous.
func RequireProgrammer(authSvc AuthServiceInterface, guard *session.Guard) func(http.Handler) http.Handler {
	return guardMiddleware(authSvc, func(ctx context.Context, st session.AuthState, r *http.Request) session.Decision {
		return guard.Programmer(ctx, st, fallbackKeyFromRequest(r))
	})
}

// RequireMustChangePassword returns a middleware that admits only sessions
// still carrying the provisioning flag. It gates the forced password-change
// route.
func RequireMustChangePassword(authSvc AuthServiceInterface, guard *session.Guard) func(http.Handler) http.Handler {
	return guardMiddleware(authSvc, func(ctx context.Context, st session.AuthState, _ *http.Request) session.Decision {
		return guard.MustChangePassword(ctx, st)
	})
}

func guardMiddleware(
	authSvc AuthServiceInterface,
	decide func(ctx context.Context, st session.AuthState, r *http.Request) session.Decision,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSessionFromRequest(r, authSvc)
			decision := decide(r.Context(), requestState{sess: sess}, r)
			if !decision.Allow {
				denyWithDecision(w, r, decision)
				return
			}
			ctx := SetSessionInContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestState adapts one request's session lookup to the AuthState surface
// guards operate on. A request either has a full session (identity and role
// known at once) or nothing, so the await operations never block.
type requestState struct {
	sess *domainauth.Session
}

func (s requestState) AwaitIdentity(context.Context) (*domainauth.Identity, bool) {
	if s.sess == nil {
		return nil, true
	}
	return sessionIdentity(s.sess), true
}

func (s requestState) AwaitRole(context.Context) (domainauth.Role, bool) {
	if s.sess == nil {
		return "", false
	}
	return s.sess.Role, true
}

func (s requestState) Snapshot() session.Snapshot {
	if s.sess == nil {
		return session.Snapshot{}
	}
	return session.Snapshot{
		Identity:           sessionIdentity(s.sess),
		Role:               s.sess.Role,
		RoleLoaded:         true,
		MustChangePassword: s.sess.MustChangePassword,
	}
}

func sessionIdentity(sess *domainauth.Session) *domainauth.Identity {
	return &domainauth.Identity{
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName,
		Email:       sess.Email,
		Claims: map[string]any{
			domainauth.ClaimMustChangePassword: sess.MustChangePassword,
		},
		ExpiresAt: sess.ExpiresAt,
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	sess, err := authSvc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return &sess
}

func fallbackKeyFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(fallbackCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// isAPIRequest reports whether the request targets the JSON API. API denials
// are status codes; everything else follows the guard's redirect.
func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	denyWithDecision(w, r, session.Decision{Redirect: session.RouteLogin})
}

func denyWithDecision(w http.ResponseWriter, r *http.Request, d session.Decision) {
	if isAPIRequest(r) {
		if d.Redirect == session.RouteLogin {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "insufficient_permissions",
			Err:     errors.New("insufficient permissions"),
		})
		return
	}

	target := d.Redirect
	if target == "" {
		target = session.RouteHome
	}
	if target == session.RouteLogin {
		target += "?redirect_uri=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusFound)
}
