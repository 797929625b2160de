// Package logger wraps a process-wide zap logger with context scoping.
//
// Init once in main:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "dohkar-api"})
//	defer logger.Sync()
//
// En services y controllers se usa el logger del request:
//
//	log := logger.From(ctx).With(logger.Op("auth.send_code"))
//	log.Info("code stored", logger.Phone(phone))
//
// Phones are always logged through logger.Phone, which masks the middle digits.
package logger
