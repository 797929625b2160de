package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dohkar/dohkar-api/internal/bootstrap"
	"github.com/dohkar/dohkar-api/internal/config"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	authsvc "github.com/dohkar/dohkar-api/internal/http/services/auth"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// sweepInterval: cada cuánto se purgan códigos y refresh tokens vencidos.
const sweepInterval = 10 * time.Minute

// Run levanta el servidor y bloquea hasta que ctx se cancela o algo falla.
// El shutdown espera a los requests en vuelo hasta Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.L().With(logger.Component("server"))

	infra, err := BuildInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := infra.Close(cctx); err != nil {
			log.Warn("infra close", logger.Err(err))
		}
	}()

	if cfg.Bootstrap.AdminPhone != "" {
		u, created, err := bootstrap.EnsureAdmin(ctx, bootstrap.AdminBootstrapConfig{
			Users:    infra.Deps.Store.Users(),
			Phone:    cfg.Bootstrap.AdminPhone,
			Password: cfg.Bootstrap.AdminPassword,
			Params:   infra.Deps.PasswordParams,
			Policy:   infra.Deps.PasswordPolicy,
		})
		if err != nil {
			// no es fatal: el admin se puede crear después con `dohkar admin create`
			log.Warn("admin bootstrap failed", logger.Err(err))
		} else {
			log.Info("admin bootstrap", logger.UserID(u.ID), logger.Bool("created", created))
		}
	}

	a, err := New(infra.Deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", logger.String("addr", cfg.Server.Addr), logger.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})

	g.Go(func() error {
		sweepExpired(gctx, infra.Deps.Store, sweepInterval, codeWindow(cfg), time.Now)
		return nil
	})

	return g.Wait()
}

// codeWindow es la ventana del rate guard de OTP; el sweeper no puede
// borrar filas que todavía cuentan dentro de ella.
func codeWindow(cfg *config.Config) time.Duration {
	if cfg.Auth.OTP.Window > 0 {
		return cfg.Auth.OTP.Window
	}
	return authsvc.DefaultCodeWindow
}

// sweepExpired borra códigos y refresh tokens vencidos hasta que ctx termine.
func sweepExpired(ctx context.Context, st repository.Store, every, window time.Duration, now func() time.Time) {
	log := logger.Service(ctx, "sweeper", "sweepExpired")
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sweepOnce(ctx, log, st, now(), window)
		}
	}
}

// sweepOnce: un código vencido sobrevive hasta salir de la ventana de rate.
func sweepOnce(ctx context.Context, log *zap.Logger, st repository.Store, at time.Time, window time.Duration) {
	codes, err := st.Codes().DeleteExpired(ctx, at, at.Add(-window))
	if err != nil {
		log.Warn("delete expired codes", logger.Err(err))
	}
	tokens, err := st.Tokens().DeleteExpired(ctx, at)
	if err != nil {
		log.Warn("delete expired tokens", logger.Err(err))
	}
	log.Debug("sweep done", logger.Int("codes", codes), logger.Int("tokens", tokens))
}
