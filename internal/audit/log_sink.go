package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// LogSink escribe el evento como una línea de log estructurada.
type LogSink struct{}

func (LogSink) Emit(ctx context.Context, e Event) error {
	fields := []zap.Field{
		logger.Component("audit"),
		logger.String("event", e.Type),
		zap.Time("ts", e.At),
	}
	if e.ActorID != "" {
		fields = append(fields, logger.String("actor_id", e.ActorID))
	}
	if e.TargetID != "" {
		fields = append(fields, logger.String("target_id", e.TargetID))
	}
	if len(e.Fields) > 0 {
		fields = append(fields, logger.Any("fields", e.Fields))
	}
	logger.From(ctx).Info("audit", fields...)
	return nil
}

func (LogSink) Close() error { return nil }
