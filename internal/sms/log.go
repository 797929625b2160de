package sms

import (
	"context"

	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// LogSender no envía nada: registra el destino enmascarado. Solo para dev.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, phone, text string) error {
	logger.From(ctx).Info("sms (log sender)",
		logger.Component("sms"),
		logger.Phone(phone),
		logger.Int("len", len(text)),
	)
	return nil
}
