// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
)

// MaxBodyBytes limita el body JSON de cualquier endpoint.
const MaxBodyBytes = 1 << 20

// ReadJSON decodifica tolerando campos desconocidos. Valida Content-Type y
// limita el body. El error devuelto ya es un *AppError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		return httperrors.ErrBadRequest.WithDetail("Content-Type must be application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// WriteData escribe {"status":"success","data":v}.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, successResponse{Status: "success", Data: v})
}

// WriteJSON escribe v tal cual, sin envelope.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message es el payload {message} de las operaciones sin datos.
type Message struct {
	Message string `json:"message"`
}
