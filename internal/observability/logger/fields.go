package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ---- HTTP ----

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// DurationMs records elapsed time in milliseconds.
func DurationMs(d time.Duration) zap.Field {
	return zap.Int64("duration_ms", d.Milliseconds())
}

// ---- Dominio ----

func UserID(v string) zap.Field { return zap.String("user_id", v) }
func PropertyID(v string) zap.Field { return zap.String("property_id", v) }
func Provider(v string) zap.Field { return zap.String("provider", v) }
func Role(v string) zap.Field { return zap.String("role", v) }

// Phone logs a masked phone: +79991234567 -> +7999***4567.
func Phone(v string) zap.Field {
	return zap.String("phone", MaskPhone(v))
}

// MaskPhone keeps the first 5 and last 4 characters.
func MaskPhone(v string) string {
	if len(v) <= 9 {
		return "***"
	}
	return v[:5] + "***" + v[len(v)-4:]
}

// Email logs a masked address: ali@example.com -> a…@e….com.
func Email(v string) zap.Field {
	return zap.String("email", MaskEmail(v))
}

func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		if len(s) <= 3 {
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	user, dom := s[:i], s[i+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	parts := strings.Split(dom, ".")
	if len(parts[0]) > 1 {
		parts[0] = parts[0][:1] + "…"
	}
	return user + "@" + strings.Join(parts, ".")
}

// ---- Sistema ----

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field { return zap.String("op", v) }
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Err(err error) zap.Field { return zap.Error(err) }

// ---- Genéricos ----

func Count(v int) zap.Field { return zap.Int("count", v) }
func ID(v string) zap.Field { return zap.String("id", v) }
func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
func Dur(key string, v time.Duration) zap.Field { return zap.Duration(key, v) }
