package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ProviderConfig es la config de un proveedor OAuth (google, yandex, vk).
type ProviderConfig struct {
	Enabled      bool     `yaml:"enabled" env:"ENABLED"`
	ClientID     string   `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"CLIENT_SECRET"`
	CallbackURL  string   `yaml:"callback_url" env:"CALLBACK_URL"`
	Scopes       []string `yaml:"scopes"`
}

type Config struct {
	App struct {
		// dev | staging | production
		Env     string `yaml:"env" env:"APP_ENV"`
		Name    string `yaml:"name"`
		Version string `yaml:"version" env:"APP_VERSION"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr" env:"SERVER_ADDR"`
		Port               int           `yaml:"-" env:"PORT"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
		// TrustedProxies: IPs/CIDRs cuyos X-Forwarded-For y X-Real-IP se
		// aceptan. Vacío: la IP del cliente es siempre RemoteAddr.
		TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
	} `yaml:"server"`

	Frontend struct {
		URL string `yaml:"url" env:"FRONTEND_URL"`
		// OAuthRedirect: el callback OAuth redirige al frontend en vez de responder JSON.
		OAuthRedirect bool `yaml:"oauth_redirect" env:"FRONTEND_OAUTH_REDIRECT"`
	} `yaml:"frontend"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver" env:"STORAGE_DRIVER"`
		DSN      string `yaml:"dsn" env:"DATABASE_URL"`
		MaxConns int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS"`
		MinConns int32  `yaml:"min_conns" env:"POSTGRES_MIN_CONNS"`
		Migrate  bool   `yaml:"migrate" env:"DB_MIGRATE"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind       string        `yaml:"kind" env:"CACHE_KIND"`
		DefaultTTL time.Duration `yaml:"default_ttl"`
		Redis      struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Secret        string        `yaml:"secret" env:"JWT_SECRET"`
		RefreshSecret string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
		AccessTTL     time.Duration `yaml:"access_ttl" env:"JWT_EXPIRES_IN"`
		RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_EXPIRES_IN"`
		Issuer        string        `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		OTP struct {
			TTL         time.Duration `yaml:"ttl"`
			Window      time.Duration `yaml:"window"`
			MaxPerPhone int           `yaml:"max_per_phone" env:"OTP_MAX_PER_PHONE"`
			MaxPerIP    int           `yaml:"max_per_ip" env:"OTP_MAX_PER_IP"`
			// DebugEcho loguea el código en dev. Forzado a false en production.
			DebugEcho bool `yaml:"debug_echo" env:"OTP_DEBUG_ECHO"`
		} `yaml:"otp"`
		OAuth struct {
			LinkUnverifiedEmail bool          `yaml:"link_unverified_email" env:"OAUTH_LINK_UNVERIFIED_EMAIL"`
			StateTTL            time.Duration `yaml:"state_ttl"`
		} `yaml:"oauth"`
		CookieDomain string `yaml:"cookie_domain" env:"COOKIE_DOMAIN"`
		// PasswordBlacklist: archivo con contraseñas comunes, una por línea. Se
		// suma a la lista embebida. Opcional.
		PasswordBlacklist string `yaml:"password_blacklist" env:"PASSWORD_BLACKLIST_PATH"`
	} `yaml:"auth"`

	Rate struct {
		Enabled     bool          `yaml:"enabled" env:"RATE_ENABLED"`
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests" env:"RATE_MAX_REQUESTS"`
		// AuthMaxRequests aplica a /api/auth/* por IP, además del límite global.
		AuthMaxRequests int `yaml:"auth_max_requests" env:"RATE_AUTH_MAX_REQUESTS"`
	} `yaml:"rate"`

	SMS struct {
		// log | http
		Provider string        `yaml:"provider" env:"SMS_PROVIDER"`
		BaseURL  string        `yaml:"base_url" env:"SMS_BASE_URL"`
		APIKey   string        `yaml:"api_key" env:"SMS_API_KEY"`
		Sender   string        `yaml:"sender" env:"SMS_SENDER"`
		Timeout  time.Duration `yaml:"timeout"`
		Breaker  struct {
			MaxRequests      uint32        `yaml:"max_requests"`
			Interval         time.Duration `yaml:"interval"`
			OpenTimeout      time.Duration `yaml:"open_timeout"`
			FailureThreshold uint32        `yaml:"failure_threshold"`
		} `yaml:"breaker"`
	} `yaml:"sms"`

	Providers struct {
		Google ProviderConfig `yaml:"google" envPrefix:"GOOGLE_"`
		Yandex ProviderConfig `yaml:"yandex" envPrefix:"YANDEX_"`
		VK     ProviderConfig `yaml:"vk" envPrefix:"VK_"`
	} `yaml:"providers"`

	Uploads struct {
		Bucket          string        `yaml:"bucket" env:"S3_BUCKET"`
		Region          string        `yaml:"region" env:"AWS_REGION"`
		Endpoint        string        `yaml:"endpoint" env:"S3_ENDPOINT"`
		AccessKeyID     string        `yaml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string        `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
		UsePathStyle    bool          `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
		PublicBaseURL   string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
		PresignTTL      time.Duration `yaml:"presign_ttl"`
	} `yaml:"uploads"`

	Audit struct {
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
		Topic   string   `yaml:"topic" env:"KAFKA_AUDIT_TOPIC"`
	} `yaml:"audit"`

	Tracing struct {
		Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		Insecure    bool    `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
		SampleRatio float64 `yaml:"sample_ratio"`
	} `yaml:"tracing"`

	// Bootstrap crea o promueve un admin al arrancar si AdminPhone no es vacío.
	Bootstrap struct {
		AdminPhone    string `yaml:"admin_phone" env:"ADMIN_PHONE"`
		AdminPassword string `yaml:"-" env:"ADMIN_PASSWORD"`
	} `yaml:"bootstrap"`
}

// Load lee el YAML (si path no es vacío), aplica defaults y luego
// overrides de entorno. El archivo es opcional solo cuando path == "".
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "dohkar-api"
	}
	if c.Server.Port > 0 {
		c.Server.Addr = fmt.Sprintf(":%d", c.Server.Port)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3001"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Frontend.URL == "" {
		c.Frontend.URL = "http://localhost:3000"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{c.Frontend.URL}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.MaxConns == 0 {
		c.Storage.MaxConns = 10
	}
	if c.Storage.MinConns == 0 {
		c.Storage.MinConns = 2
	}

	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
		if c.Cache.Redis.Addr != "" {
			c.Cache.Kind = "redis"
		}
	}
	if c.Cache.DefaultTTL == 0 {
		c.Cache.DefaultTTL = time.Minute
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "dohkar:"
	}

	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 15 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = c.App.Name
	}

	if c.Auth.OTP.TTL == 0 {
		c.Auth.OTP.TTL = 5 * time.Minute
	}
	if c.Auth.OTP.Window == 0 {
		c.Auth.OTP.Window = 10 * time.Minute
	}
	if c.Auth.OTP.MaxPerPhone == 0 {
		c.Auth.OTP.MaxPerPhone = 3
	}
	if c.Auth.OTP.MaxPerIP == 0 {
		c.Auth.OTP.MaxPerIP = 10
	}
	if c.Auth.OAuth.StateTTL == 0 {
		c.Auth.OAuth.StateTTL = 10 * time.Minute
	}

	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 120
	}
	if c.Rate.AuthMaxRequests == 0 {
		c.Rate.AuthMaxRequests = 30
	}

	if c.SMS.Provider == "" {
		c.SMS.Provider = "log"
	}
	if c.SMS.Timeout == 0 {
		c.SMS.Timeout = 5 * time.Second
	}
	if c.SMS.Breaker.MaxRequests == 0 {
		c.SMS.Breaker.MaxRequests = 1
	}
	if c.SMS.Breaker.Interval == 0 {
		c.SMS.Breaker.Interval = time.Minute
	}
	if c.SMS.Breaker.OpenTimeout == 0 {
		c.SMS.Breaker.OpenTimeout = 30 * time.Second
	}
	if c.SMS.Breaker.FailureThreshold == 0 {
		c.SMS.Breaker.FailureThreshold = 5
	}

	if len(c.Providers.Google.Scopes) == 0 {
		c.Providers.Google.Scopes = []string{"openid", "email", "profile"}
	}
	if len(c.Providers.Yandex.Scopes) == 0 {
		c.Providers.Yandex.Scopes = []string{"login:email", "login:info", "login:avatar"}
	}
	if len(c.Providers.VK.Scopes) == 0 {
		c.Providers.VK.Scopes = []string{"email"}
	}
	for _, p := range []*ProviderConfig{&c.Providers.Google, &c.Providers.Yandex, &c.Providers.VK} {
		if p.ClientID != "" && p.ClientSecret != "" {
			p.Enabled = true
		}
	}

	if c.Uploads.PresignTTL == 0 {
		c.Uploads.PresignTTL = 15 * time.Minute
	}
	if c.Uploads.Region == "" {
		c.Uploads.Region = "ru-central1"
	}
	if c.Audit.Topic == "" {
		c.Audit.Topic = "dohkar.audit"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	// Guardia dura: nunca se loguean códigos OTP en producción.
	if c.IsProduction() {
		c.Auth.OTP.DebugEcho = false
	}
}

// IsProduction reporta si APP_ENV es production/prod.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production" || c.App.Env == "prod"
}

// Validate chequea los invariantes que el resto del wiring asume.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn (DATABASE_URL) is required for postgres"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported", c.Storage.Driver))
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported", c.Cache.Kind))
	}
	if c.JWT.Secret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("jwt.secret and jwt.refresh_secret are required"))
	} else if c.JWT.Secret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("jwt.secret and jwt.refresh_secret must differ"))
	}
	if c.IsProduction() && (len(c.JWT.Secret) < 32 || len(c.JWT.RefreshSecret) < 32) {
		errs = append(errs, errors.New("jwt secrets must be at least 32 bytes in production"))
	}
	switch c.SMS.Provider {
	case "log":
		if c.IsProduction() {
			errs = append(errs, errors.New("sms.provider=log is not allowed in production"))
		}
	case "http":
		if c.SMS.BaseURL == "" || c.SMS.APIKey == "" {
			errs = append(errs, errors.New("sms.base_url and sms.api_key are required for sms.provider=http"))
		}
	default:
		errs = append(errs, fmt.Errorf("sms.provider %q not supported", c.SMS.Provider))
	}
	return errors.Join(errs...)
}
