package auth

import (
	"errors"
	"net/http"
	"time"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
)

// writeAuthError mapea los errores del service a la respuesta HTTP.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error, retryAfter time.Duration) {
	switch {
	case errors.Is(err, svc.ErrTooManyAttempts):
		httperrors.WriteError(w, r, httperrors.ErrRateLimitExceeded.WithRetryAfter(retryAfter))
	case errors.Is(err, svc.ErrTooManyAttemptsIP):
		httperrors.WriteError(w, r, httperrors.ErrRateLimitIP.WithRetryAfter(retryAfter))
	case errors.Is(err, svc.ErrInvalidCode):
		httperrors.WriteError(w, r, httperrors.ErrInvalidCode)
	case errors.Is(err, svc.ErrInvalidRefresh):
		httperrors.WriteError(w, r, httperrors.ErrRefreshInvalid)
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, r, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrPhoneTaken):
		httperrors.WriteError(w, r, httperrors.ErrPhoneTaken)
	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, r, httperrors.ErrWeakPassword.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrEmailNotVerified):
		httperrors.WriteError(w, r, httperrors.ErrEmailNotVerified)
	case errors.Is(err, svc.ErrUserNotFound):
		// en endpoints de auth un usuario borrado equivale a token inválido
		httperrors.WriteError(w, r, httperrors.ErrTokenInvalid)
	case errors.Is(err, svc.ErrProviderDisabled):
		httperrors.WriteError(w, r, httperrors.ErrUnsupported)
	case errors.Is(err, svc.ErrInvalidState):
		httperrors.WriteError(w, r, httperrors.ErrInvalidState)
	case errors.Is(err, svc.ErrOAuthFailed):
		httperrors.WriteError(w, r, httperrors.ErrOAuthFailed)
	default:
		httperrors.WriteError(w, r, err)
	}
}
