package middleware

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/logger"
)

// RequireAtLeast lets through callers whose role ranks at or above minRole
// (admin > moderator > user). It must be mounted after Auth.
func RequireAtLeast(minRole string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	minRank := domain.RoleRank(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			rank := domain.RoleRank(id.Role)
			switch {
			case rank == 0 || minRank == 0:
				writeErr(w, r, domain.ErrForbidden())
			case rank < minRank:
				logDenied(r, id, minRole)
				writeErr(w, r, domain.ErrInsufficientRole(minRole))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func logDenied(r *http.Request, id Identity, minRole string) {
	logger.WithCtx(r.Context()).Warn().
		Str("user_id", id.UserID).
		Str("role", id.Role).
		Str("required", minRole).
		Str("path", r.URL.Path).
		Msg("admin access denied")
}
