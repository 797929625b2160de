package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// AccessParser valida access tokens. *jwt.Issuer lo implementa.
type AccessParser interface {
	ParseAccess(token string) (*jwtx.Claims, error)
}

// RequireAuth valida "Authorization: Bearer <JWT>" (o la cookie
// accessToken que deja el callback OAuth) y guarda el Principal. Cualquier
// falla de parseo es el mismo 401.
func RequireAuth(parser AccessParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := helpers.BearerToken(r)
			if raw == "" {
				raw = helpers.CookieValue(r, helpers.AccessCookie)
			}
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				httperrors.WriteError(w, r, httperrors.ErrTokenMissing)
				return
			}

			claims, err := parser.ParseAccess(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, r, httperrors.ErrTokenInvalid)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: claims.Subject})
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserLookup es lo mínimo que RequireRole necesita del repositorio.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
}

// RequireRole carga el usuario del Principal y exige uno de roles. Debe ir
// después de RequireAuth. Un usuario borrado con token vigente es 401.
func RequireRole(users UserLookup, roles ...types.Role) Middleware {
	allowed := make(map[types.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			if !ok {
				httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
				return
			}
			u, err := users.GetByID(r.Context(), p.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
				return
			}
			if err != nil {
				httperrors.WriteError(w, r, err)
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				logger.From(r.Context()).Warn("role denied", logger.Role(string(u.Role)))
				httperrors.WriteError(w, r, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
