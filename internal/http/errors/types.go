package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dohkar/dohkar-api/internal/validation"
)

// AppError es el error estándar que cruza la frontera HTTP.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	HTTPStatus int
	RetryAfter time.Duration
	Err        error // causa original, solo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// WithDetail devuelve una COPIA con Detail.
func (e *AppError) WithDetail(detail string) *AppError {
	c := *e
	c.Detail = detail
	return &c
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// WithRetryAfter devuelve una COPIA; WriteError emite el header Retry-After.
func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	c := *e
	c.RetryAfter = d
	return &c
}

// FromError convierte cualquier error en AppError. validation.Errors se
// mapea a 400; lo desconocido a 500 conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var ve validation.Errors
	if errors.As(err, &ve) {
		return ErrValidation.WithDetail(ve.Error())
	}
	return ErrInternal.WithCause(err)
}

// ---- 400 ----

var (
	ErrBadRequest   = New(http.StatusBadRequest, "bad_request", "Некорректный запрос")
	ErrInvalidJSON  = New(http.StatusBadRequest, "invalid_json", "Тело запроса не является корректным JSON")
	ErrValidation   = New(http.StatusBadRequest, "validation_failed", "Ошибка валидации")
	ErrInvalidCode  = New(http.StatusBadRequest, "invalid_code", "Неверный или истекший код")
	ErrPhoneTaken   = New(http.StatusBadRequest, "phone_taken", "Пользователь с таким номером уже существует")
	ErrWeakPassword = New(http.StatusBadRequest, "weak_password", "Пароль не соответствует требованиям")
	ErrBodyTooLarge = New(http.StatusRequestEntityTooLarge, "body_too_large", "Тело запроса слишком большое")
	ErrUnsupported  = New(http.StatusBadRequest, "unsupported_provider", "Провайдер не поддерживается")
	ErrBadImageType = New(http.StatusBadRequest, "unsupported_image", "Неподдерживаемый тип изображения")
	ErrSelfAction   = New(http.StatusBadRequest, "self_action", "Нельзя изменить роль или удалить собственную учетную запись")
)

// ---- 401 ----

var (
	ErrUnauthorized       = New(http.StatusUnauthorized, "unauthorized", "Требуется авторизация")
	ErrTokenMissing       = New(http.StatusUnauthorized, "token_missing", "Токен не передан")
	ErrTokenInvalid       = New(http.StatusUnauthorized, "token_invalid", "Недействительный токен")
	ErrRefreshInvalid     = New(http.StatusUnauthorized, "token_invalid", "Refresh token недействителен")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "invalid_credentials", "Неверный телефон или пароль")
	ErrInvalidState       = New(http.StatusUnauthorized, "invalid_state", "Недействительный параметр state")
	ErrOAuthFailed        = New(http.StatusUnauthorized, "oauth_failed", "Ошибка авторизации через провайдера")
)

// ---- 403 / 404 / 409 ----

var (
	ErrForbidden        = New(http.StatusForbidden, "forbidden", "Недостаточно прав")
	ErrNotOwner         = New(http.StatusForbidden, "not_owner", "Вы можете изменять только свои объявления")
	ErrNotFound         = New(http.StatusNotFound, "not_found", "Ресурс не найден")
	ErrUserNotFound     = New(http.StatusNotFound, "user_not_found", "Пользователь не найден")
	ErrPropertyNotFound = New(http.StatusNotFound, "property_not_found", "Объявление не найдено")
	ErrFavoriteNotFound = New(http.StatusNotFound, "favorite_not_found", "Объявление не найдено в избранном")
	ErrAlreadyExists    = New(http.StatusConflict, "already_exists", "Объявление уже в избранном")
	ErrConflict         = New(http.StatusConflict, "conflict", "Конфликт данных")
	ErrEmailNotVerified = New(http.StatusConflict, "email_not_verified", "Email провайдера не подтвержден")
)

// ---- 405 / 429 / 5xx ----

var (
	ErrMethodNotAllowed   = New(http.StatusMethodNotAllowed, "method_not_allowed", "Метод не поддерживается")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, "rate_limit_exceeded", "Слишком много попыток. Попробуйте позже.")
	ErrRateLimitIP        = New(http.StatusTooManyRequests, "rate_limit_exceeded", "Слишком много попыток с этого IP. Попробуйте позже.")
	ErrInternal           = New(http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "service_unavailable", "Сервис временно недоступен")
	ErrUploadsDisabled    = New(http.StatusServiceUnavailable, "uploads_disabled", "Загрузка изображений не настроена")
)
