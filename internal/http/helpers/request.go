package helpers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
)

type clientIPKey struct{}

// TrustedProxies es el conjunto de peers (IPs o CIDRs) cuyos
// X-Forwarded-For / X-Real-IP se aceptan. Vacío: nunca se leen los headers.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies acepta "10.0.0.1" o "10.0.0.0/8".
func ParseTrustedProxies(list []string) (TrustedProxies, error) {
	var tp TrustedProxies
	for _, raw := range list {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return TrustedProxies{}, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			tp.prefixes = append(tp.prefixes, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(raw)
		if err != nil {
			return TrustedProxies{}, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		a = a.Unmap()
		tp.prefixes = append(tp.prefixes, netip.PrefixFrom(a, a.BitLen()))
	}
	return tp, nil
}

// Contains reporta si ip (texto) pertenece a algún proxy confiable.
func (tp TrustedProxies) Contains(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range tp.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ResolveClientIP usa RemoteAddr salvo que el peer sea un proxy confiable.
// En ese caso recorre X-Forwarded-For de derecha a izquierda y retorna el
// primer salto que no es proxy; sin XFF cae a X-Real-IP.
func ResolveClientIP(r *http.Request, tp TrustedProxies) string {
	peer := remoteHost(r)
	if !tp.Contains(peer) {
		return peer
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		hops := strings.Split(xf, ",")
		client := peer
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			client = hop
			if !tp.Contains(hop) {
				break
			}
		}
		return client
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		if _, err := netip.ParseAddr(xr); err == nil {
			return xr
		}
	}
	return peer
}

// WithClientIP guarda la IP ya resuelta en el contexto.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP retorna la IP resuelta por el middleware; sin él, el host de
// RemoteAddr. Nunca confía en headers por su cuenta.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// IsHTTPS detecta TLS directo o detrás de proxy.
func IsHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// BearerToken extrae el token de "Authorization: Bearer <t>".
func BearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[7:])
}

// QueryInt lee un entero opcional. ok=false si el valor existe y no parsea.
func QueryInt(r *http.Request, key string) (v *int, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// QueryFloat lee un float opcional.
func QueryFloat(r *http.Request, key string) (v *float64, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}
