package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"launchit/internal/auth"
	"launchit/internal/domain/services"
	"launchit/internal/httputil"
)

// AuthMiddleware verifies the bearer token, when present, and stores the
// resolved actor in the request context. Requests without a token continue
// as anonymous visitors; services decide what anonymous visitors may do.
// A token that is present but invalid is rejected with 401.
func AuthMiddleware(verifier auth.JWTVerifier, identity services.IdentityService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			actor, err := identity.ResolveActor(r.Context(), claims.GetUserID())
			if err != nil {
				logger.Error("failed to resolve actor", "user_id", claims.GetUserID(), "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "failed to resolve user")
				return
			}

			next.ServeHTTP(w, httputil.WithActor(r, actor))
		})
	}
}
