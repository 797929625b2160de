package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/metrics"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
	tokens "github.com/dohkar/dohkar-api/internal/security/token"
	"github.com/dohkar/dohkar-api/internal/sms"
)

const (
	DefaultCodeTTL = 5 * time.Minute
	codeDigits     = 6
)

// OTPService emite y verifica códigos de un solo uso por SMS.
type OTPService struct {
	codes     repository.CodeRepository
	users     repository.UserRepository
	guard     *CodeRateGuard
	sender    sms.Sender
	ttl       time.Duration
	debugEcho bool
	generate  func() (string, error)
	now       func() time.Time
}

// OTPConfig: Generate nil usa crypto/rand con 6 dígitos.
type OTPConfig struct {
	TTL       time.Duration
	DebugEcho bool
	Generate  func() (string, error)
}

func NewOTPService(store repository.Store, guard *CodeRateGuard, sender sms.Sender, cfg OTPConfig, now func() time.Time) *OTPService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCodeTTL
	}
	if cfg.Generate == nil {
		cfg.Generate = func() (string, error) { return tokens.NumericCode(codeDigits) }
	}
	if sender == nil {
		sender = sms.LogSender{}
	}
	if now == nil {
		now = time.Now
	}
	return &OTPService{
		codes:     store.Codes(),
		users:     store.Users(),
		guard:     guard,
		sender:    sender,
		ttl:       cfg.TTL,
		debugEcho: cfg.DebugEcho,
		generate:  cfg.Generate,
		now:       now,
	}
}

// SendCode persiste un código nuevo y lo despacha. Si el SMS falla el
// código queda guardado y la llamada no falla.
func (s *OTPService) SendCode(ctx context.Context, phone, ip string) error {
	log := logger.Service(ctx, "auth.otp", "SendCode").With(logger.Phone(phone))

	if err := s.guard.Check(ctx, phone, ip); err != nil {
		switch {
		case errors.Is(err, ErrTooManyAttempts):
			metrics.OTPSent.WithLabelValues("throttled_phone").Inc()
		case errors.Is(err, ErrTooManyAttemptsIP):
			metrics.OTPSent.WithLabelValues("throttled_ip").Inc()
		default:
			metrics.OTPSent.WithLabelValues("error").Inc()
		}
		log.Info("code request rejected", logger.Err(err))
		return err
	}

	code, err := s.generate()
	if err != nil {
		metrics.OTPSent.WithLabelValues("error").Inc()
		return fmt.Errorf("generate code: %w", err)
	}
	now := s.now()
	if _, err := s.codes.Create(ctx, phone, code, now, now.Add(s.ttl), ip); err != nil {
		metrics.OTPSent.WithLabelValues("error").Inc()
		return fmt.Errorf("store code: %w", err)
	}
	if s.debugEcho {
		log.Info("otp debug echo", logger.String("code", code))
	}

	if err := s.sender.Send(ctx, phone, sms.CodeText(code)); err != nil {
		metrics.OTPSent.WithLabelValues("sms_failed").Inc()
		log.Warn("sms dispatch failed, code kept", logger.Err(err))
		return nil
	}
	metrics.OTPSent.WithLabelValues("sent").Inc()
	log.Debug("code sent")
	return nil
}

// VerifyCode consume el código y devuelve el usuario del teléfono,
// creándolo si no existía.
func (s *OTPService) VerifyCode(ctx context.Context, phone, code string) (*repository.User, bool, error) {
	if _, err := s.codes.Consume(ctx, phone, code, s.now()); err != nil {
		if repository.IsNotFound(err) {
			return nil, false, ErrInvalidCode
		}
		return nil, false, fmt.Errorf("consume code: %w", err)
	}
	u, created, err := s.users.FindOrCreateByPhone(ctx, phone)
	if err != nil {
		return nil, false, fmt.Errorf("find or create user: %w", err)
	}
	return u, created, nil
}
