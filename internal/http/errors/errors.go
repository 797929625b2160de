// Package errors define AppError y el envelope de error de la API:
//
//	{"status":"error","statusCode":400,"code":"invalid_code","message":"...","timestamp":"...","path":"/api/..."}
package errors

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

type errorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// WriteError escribe el envelope de error. Los 5xx loguean la causa; al
// cliente nunca le llega.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	path := ""
	if r != nil {
		path = r.URL.Path
		if appErr.HTTPStatus >= 500 {
			logger.From(r.Context()).Error("request failed",
				logger.String("code", appErr.Code),
				logger.Err(appErr.Err),
			)
		}
	}

	resp := errorResponse{
		Status:     "error",
		StatusCode: appErr.HTTPStatus,
		Code:       appErr.Code,
		Message:    appErr.Message,
		Detail:     appErr.Detail,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       path,
	}

	if appErr.RetryAfter > 0 {
		secs := int(math.Ceil(appErr.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
