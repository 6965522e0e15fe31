package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/huntboard/huntboard/internal/platform/httpx"
	"github.com/huntboard/huntboard/internal/shared"
	"github.com/huntboard/huntboard/internal/token"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// Middleware wires authentication and role checks for HTTP handlers.
type Middleware struct {
	logger *slog.Logger
	tokens *token.Service
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(logger *slog.Logger, tokens *token.Service) *Middleware {
	return &Middleware{logger: logger, tokens: tokens}
}

// Authenticate extracts the session token from the cookie or the
// Authorization header, verifies it and attaches the caller identity to the
// request context. Requests without a valid token never reach the handler.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication invalid: no token provided")
			return
		}

		identity, err := m.tokens.Verify(raw)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("token verification failed", slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication invalid: token verification failed")
			return
		}

		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a route on an allow-list of roles. It must run after
// Authenticate.
func (m *Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication invalid: no token provided")
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
