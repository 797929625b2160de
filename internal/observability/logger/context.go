package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext stores a request-scoped logger. Middlewares call it once per
// request so services can log with request_id and friends attached.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the scoped logger or the singleton when none was stored.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return L()
}

// Service is shorthand for the fields every service method attaches.
func Service(ctx context.Context, component, op string) *zap.Logger {
	return From(ctx).With(Layer("service"), Component(component), Op(op))
}
