package password

import "unicode/utf8"

// Policy limita el largo (en runas) y opcionalmente rechaza contraseñas comunes.
type Policy struct {
	MinLength int
	MaxLength int
	Blacklist *Blacklist
}

var DefaultPolicy = Policy{MinLength: 8, MaxLength: 72}

// Validate retorna los motivos de rechazo; vacío si la contraseña es aceptable.
func (p Policy) Validate(s string) (ok bool, reasons []string) {
	n := utf8.RuneCountInString(s)
	if n < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		reasons = append(reasons, "too_long")
	}
	if p.Blacklist.Contains(s) {
		reasons = append(reasons, "too_common")
	}
	return len(reasons) == 0, reasons
}
