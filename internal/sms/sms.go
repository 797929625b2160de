// Package sms entrega los códigos OTP. El gateway real es externo: acá solo
// hay un cliente HTTP, un sender de log para dev y el breaker que los envuelve.
package sms

import (
	"context"
	"errors"
	"fmt"
)

// Sender entrega un texto a un teléfono E.164.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

var (
	// ErrUnavailable: el breaker está abierto o saturado en half-open.
	ErrUnavailable = errors.New("sms: gateway unavailable")
	ErrRejected    = errors.New("sms: rejected by gateway")
)

// CodeText arma el mensaje que recibe el usuario.
func CodeText(code string) string {
	return fmt.Sprintf("Dohkar: ваш код %s. Никому его не сообщайте.", code)
}
