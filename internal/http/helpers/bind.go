package helpers

import "net/http"

// Validator lo implementan los DTOs de request.
type Validator interface {
	Validate() error
}

// BindJSON decodifica el body en v y lo valida. Los errores de Validate
// son validation.Errors y WriteError los mapea a 400.
func BindJSON(w http.ResponseWriter, r *http.Request, v Validator) error {
	if err := ReadJSON(w, r, v); err != nil {
		return err
	}
	return v.Validate()
}
