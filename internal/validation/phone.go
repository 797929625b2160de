// Package validation contiene las reglas de formato compartidas por los DTOs.
package validation

import (
	"regexp"
	"strings"
)

// Teléfonos rusos: +7 seguido de 10 dígitos.
var phoneRe = regexp.MustCompile(`^\+7\d{10}$`)

// NormalizePhone acepta "+7XXXXXXXXXX", "7XXXXXXXXXX" o "8XXXXXXXXXX",
// con espacios, guiones o paréntesis, y devuelve la forma +7XXXXXXXXXX.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", false
		}
	}
	s := b.String()
	switch {
	case len(s) == 11 && s[0] == '8':
		s = "+7" + s[1:]
	case len(s) == 11 && s[0] == '7':
		s = "+" + s
	}
	if !phoneRe.MatchString(s) {
		return "", false
	}
	return s, true
}

var codeRe = regexp.MustCompile(`^\d{4,6}$`)

// ValidCode: 4 a 6 dígitos. El emisor siempre genera 6.
func ValidCode(code string) bool {
	return codeRe.MatchString(code)
}
