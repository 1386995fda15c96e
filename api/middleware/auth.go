package middleware

import (
	"net/http"
	"strings"

	"github.com/camachodev/puntoventa-backend/api/responses"
	pkgAuth "github.com/camachodev/puntoventa-backend/pkg/auth"
	"github.com/camachodev/puntoventa-backend/pkg/config"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			branchID := ""
			if claims.BranchID != nil {
				branchID = claims.BranchID.String()
			}
			ctx := WithIdentity(r.Context(), claims.ProfileID.String(), claims.OrganizationID.String(), branchID, string(claims.Role))

			if logg != nil {
				fields := map[string]any{
					"profile_id": claims.ProfileID.String(),
					"role":       string(claims.Role),
				}
				if branchID != "" {
					fields["branch_id"] = branchID
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
