package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

// Defaults de la ventana de envío de códigos.
const (
	DefaultCodeWindow       = 10 * time.Minute
	DefaultMaxCodesPerPhone = 3
	DefaultMaxCodesPerIP    = 10
)

// CodeRateGuard limita la emisión de códigos por teléfono e IP contando
// filas en one_time_codes dentro de la ventana deslizante.
type CodeRateGuard struct {
	codes       repository.CodeRepository
	window      time.Duration
	maxPerPhone int
	maxPerIP    int
	now         func() time.Time
}

// RateGuardConfig: ceros toman los defaults.
type RateGuardConfig struct {
	Window      time.Duration
	MaxPerPhone int
	MaxPerIP    int
}

func NewCodeRateGuard(codes repository.CodeRepository, cfg RateGuardConfig, now func() time.Time) *CodeRateGuard {
	if cfg.Window <= 0 {
		cfg.Window = DefaultCodeWindow
	}
	if cfg.MaxPerPhone <= 0 {
		cfg.MaxPerPhone = DefaultMaxCodesPerPhone
	}
	if cfg.MaxPerIP <= 0 {
		cfg.MaxPerIP = DefaultMaxCodesPerIP
	}
	if now == nil {
		now = time.Now
	}
	return &CodeRateGuard{
		codes:       codes,
		window:      cfg.Window,
		maxPerPhone: cfg.MaxPerPhone,
		maxPerIP:    cfg.MaxPerIP,
		now:         now,
	}
}

// Window expone la ventana para calcular Retry-After.
func (g *CodeRateGuard) Window() time.Duration { return g.window }

// Check no tiene efectos. ip vacío solo chequea el teléfono.
func (g *CodeRateGuard) Check(ctx context.Context, phone, ip string) error {
	since := g.now().Add(-g.window)

	n, err := g.codes.CountByPhoneSince(ctx, phone, since)
	if err != nil {
		return fmt.Errorf("count codes by phone: %w", err)
	}
	if n >= g.maxPerPhone {
		return ErrTooManyAttempts
	}
	if ip == "" {
		return nil
	}
	n, err = g.codes.CountByIPSince(ctx, ip, since)
	if err != nil {
		return fmt.Errorf("count codes by ip: %w", err)
	}
	if n >= g.maxPerIP {
		return ErrTooManyAttemptsIP
	}
	return nil
}
