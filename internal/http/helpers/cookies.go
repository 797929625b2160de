package helpers

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// CookieOptions controla los atributos de las cookies de sesión.
type CookieOptions struct {
	Domain string
	Secure bool
}

// SetAuthCookies deja access y refresh como cookies httpOnly SameSite=Lax.
func SetAuthCookies(w http.ResponseWriter, opts CookieOptions, access, refresh string, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, authCookie(AccessCookie, access, accessTTL, opts))
	http.SetCookie(w, authCookie(RefreshCookie, refresh, refreshTTL, opts))
}

// ClearAuthCookies expira ambas cookies.
func ClearAuthCookies(w http.ResponseWriter, opts CookieOptions) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		c := authCookie(name, "", 0, opts)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func authCookie(name, value string, ttl time.Duration, opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieValue devuelve "" si la cookie no existe.
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
