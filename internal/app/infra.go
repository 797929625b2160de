package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dohkar/dohkar-api/internal/audit"
	"github.com/dohkar/dohkar-api/internal/cache"
	"github.com/dohkar/dohkar-api/internal/config"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	"github.com/dohkar/dohkar-api/internal/metrics"
	"github.com/dohkar/dohkar-api/internal/oauth"
	"github.com/dohkar/dohkar-api/internal/oauth/google"
	"github.com/dohkar/dohkar-api/internal/oauth/vk"
	"github.com/dohkar/dohkar-api/internal/oauth/yandex"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
	"github.com/dohkar/dohkar-api/internal/observability/tracing"
	"github.com/dohkar/dohkar-api/internal/rate"
	"github.com/dohkar/dohkar-api/internal/security/password"
	"github.com/dohkar/dohkar-api/internal/sms"
	"github.com/dohkar/dohkar-api/internal/storage/s3"
	"github.com/dohkar/dohkar-api/internal/store"
	migrations "github.com/dohkar/dohkar-api/migrations/postgres"
)

// Infra son las conexiones abiertas a partir de la config. Close libera
// todo en orden inverso.
type Infra struct {
	Deps Deps

	closers []func(context.Context) error
}

func (in *Infra) onClose(fn func(context.Context) error) {
	in.closers = append(in.closers, fn)
}

// Close cierra todo lo abierto por BuildInfra.
func (in *Infra) Close(ctx context.Context) error {
	var errs []error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pooled lo implementa store/pg.Store.
type pooled interface {
	Pool() *pgxpool.Pool
}

// OpenStore abre el driver configurado. Lo comparten serve y el CLI.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	return store.Open(ctx, store.Config{
		Driver:   cfg.Storage.Driver,
		DSN:      cfg.Storage.DSN,
		MaxConns: cfg.Storage.MaxConns,
		MinConns: cfg.Storage.MinConns,
	})
}

// Migrate aplica las migraciones embebidas. Solo postgres.
func Migrate(ctx context.Context, st repository.Store) (*store.MigrationResult, error) {
	p, ok := st.(pooled)
	if !ok {
		return &store.MigrationResult{}, nil
	}
	return store.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, p.Pool())
}

// BuildInfra abre store, cache, limiter, SMS, OAuth, S3, audit y tracing.
// Si algo falla se cierra lo que ya estaba abierto.
func BuildInfra(ctx context.Context, cfg *config.Config) (_ *Infra, err error) {
	log := logger.Service(ctx, "app", "BuildInfra")
	in := &Infra{}
	defer func() {
		if err != nil {
			_ = in.Close(context.Background())
		}
	}()

	// Tracing
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Env:         cfg.App.Env,
	})
	if err != nil {
		return nil, err
	}
	in.onClose(shutdownTracing)

	reg := prometheus.NewRegistry()
	in.Deps.Registry = reg

	// Store
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	in.onClose(func(context.Context) error { st.Close(); return nil })
	in.Deps.Store = st
	if p, ok := st.(pooled); ok {
		if err := metrics.RegisterAll(reg, metrics.NewPoolCollector(p.Pool())); err != nil {
			return nil, err
		}
		if cfg.Storage.Migrate {
			res, err := Migrate(ctx, st)
			if err != nil {
				return nil, err
			}
			log.Info("migrations applied", logger.Count(len(res.Applied)))
		}
	}

	// Cache + rate limiter. Con redis comparten el mismo cliente.
	switch cfg.Cache.Kind {
	case "redis":
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		in.onClose(func(context.Context) error { return client.Close() })
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pctx).Err()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("app: redis ping: %w", err)
		}
		in.Deps.Cache = cache.WrapRedis(client, cfg.Cache.Redis.Prefix, cfg.Cache.DefaultTTL)
		in.Deps.Limiter = rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+"rl:")
	default:
		c := cache.NewMemory(cfg.Cache.DefaultTTL)
		in.onClose(func(context.Context) error { return c.Close() })
		in.Deps.Cache = c
		in.Deps.Limiter = rate.NewMemoryLimiter()
	}

	// JWT
	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		return nil, err
	}
	in.Deps.Issuer = issuer

	// Passwords
	blacklist, err := password.LoadBlacklist(cfg.Auth.PasswordBlacklist)
	if err != nil {
		return nil, fmt.Errorf("app: password blacklist: %w", err)
	}
	in.Deps.PasswordParams = password.Default
	in.Deps.PasswordPolicy = password.Policy{
		MinLength: password.DefaultPolicy.MinLength,
		MaxLength: password.DefaultPolicy.MaxLength,
		Blacklist: blacklist,
	}

	// SMS
	var base sms.Sender = sms.LogSender{}
	if cfg.SMS.Provider == "http" {
		base = sms.NewHTTPSender(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.Sender, cfg.SMS.Timeout)
	}
	guarded := sms.NewGuarded(base, cfg.SMS.Timeout, sms.BreakerConfig{
		MaxRequests:      cfg.SMS.Breaker.MaxRequests,
		Interval:         cfg.SMS.Breaker.Interval,
		OpenTimeout:      cfg.SMS.Breaker.OpenTimeout,
		FailureThreshold: cfg.SMS.Breaker.FailureThreshold,
	})
	in.Deps.SMS = guarded
	in.Deps.SMSState = guarded.State

	// OAuth
	in.Deps.OAuth = buildProviders(cfg)
	log.Info("oauth providers", logger.Any("enabled", in.Deps.OAuth.Enabled()))

	// Uploads (opcional)
	if cfg.Uploads.Bucket != "" {
		presigner, err := s3.New(ctx, s3.Config{
			Bucket:          cfg.Uploads.Bucket,
			Region:          cfg.Uploads.Region,
			Endpoint:        cfg.Uploads.Endpoint,
			AccessKeyID:     cfg.Uploads.AccessKeyID,
			SecretAccessKey: cfg.Uploads.SecretAccessKey,
			UsePathStyle:    cfg.Uploads.UsePathStyle,
			PublicBaseURL:   cfg.Uploads.PublicBaseURL,
			PresignTTL:      cfg.Uploads.PresignTTL,
		})
		if err != nil {
			return nil, err
		}
		in.Deps.Uploader = presigner
	}

	// Audit (opcional): log siempre, Kafka si hay brokers.
	if len(cfg.Audit.Brokers) > 0 {
		sink := audit.Tee{audit.LogSink{}, audit.NewKafkaSink(cfg.Audit.Brokers, cfg.Audit.Topic)}
		prev := audit.SetDefault(sink)
		in.onClose(func(context.Context) error {
			audit.SetDefault(prev)
			return sink.Close()
		})
	}

	in.Deps.Config = cfg
	return in, nil
}

func buildProviders(cfg *config.Config) *oauth.Registry {
	reg := oauth.NewRegistry()
	p := cfg.Providers
	if p.Google.Enabled {
		reg.Register(google.New(p.Google.ClientID, p.Google.ClientSecret, p.Google.CallbackURL, p.Google.Scopes))
	}
	if p.Yandex.Enabled {
		reg.Register(yandex.New(p.Yandex.ClientID, p.Yandex.ClientSecret, p.Yandex.CallbackURL, p.Yandex.Scopes))
	}
	if p.VK.Enabled {
		reg.Register(vk.New(p.VK.ClientID, p.VK.ClientSecret, p.VK.CallbackURL, p.VK.Scopes))
	}
	return reg
}
