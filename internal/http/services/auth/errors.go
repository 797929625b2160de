package auth

import "errors"

// Errores del dominio auth. Los controllers los mapean a httperrors.
var (
	ErrTooManyAttempts    = errors.New("too many code requests for phone")
	ErrTooManyAttemptsIP  = errors.New("too many code requests from ip")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrWeakPassword       = errors.New("password rejected by policy")
	ErrEmailNotVerified   = errors.New("oauth email not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrProviderDisabled   = errors.New("oauth provider not enabled")
	ErrInvalidState       = errors.New("invalid oauth state")
	ErrOAuthFailed        = errors.New("oauth exchange failed")
)
