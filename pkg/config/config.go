package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	DB       DBConfig
	Session  SessionConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Contact  ContactConfig
	Mailer   MailerConfig
	ImageKit ImageKitConfig
	Flags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOBBIN_APP_ENV" required:"true"`
	Port         string `envconfig:"BOBBIN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BOBBIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOBBIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the external commerce API that owns catalog and
// order persistence.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"BOBBIN_UPSTREAM_BASE_URL" default:"http://localhost:5000/api/v1"`
	Timeout time.Duration `envconfig:"BOBBIN_UPSTREAM_TIMEOUT" default:"10s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("upstream base url %q is not a valid absolute url", u.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BOBBIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BOBBIN_REDIS_ADDR"`
	Password     string        `envconfig:"BOBBIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOBBIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOBBIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOBBIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOBBIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOBBIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOBBIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// DBConfig backs the local order deployment variant. Leaving DSN empty disables
// the variant and /api/orders responds 404.
type DBConfig struct {
	DSN    string `envconfig:"BOBBIN_DB_DSN"`
	Driver string `envconfig:"BOBBIN_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"BOBBIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOBBIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOBBIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOBBIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) Enabled() bool {
	return strings.TrimSpace(d.DSN) != ""
}

type SessionConfig struct {
	Secret     string `envconfig:"BOBBIN_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"BOBBIN_SESSION_ISSUER" default:"bobbin-storefront"`
	TTLSeconds int    `envconfig:"BOBBIN_SESSION_TTL_SECONDS" default:"86400"`
	CookieName string `envconfig:"BOBBIN_SESSION_COOKIE" default:"admin-auth"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

type CartConfig struct {
	CookieName string        `envconfig:"BOBBIN_CART_COOKIE" default:"bb-cart"`
	TTL        time.Duration `envconfig:"BOBBIN_CART_TTL" default:"720h"`
}

type CheckoutConfig struct {
	// MaxConcurrent caps how many order submissions run at once in a batch.
	MaxConcurrent int `envconfig:"BOBBIN_CHECKOUT_MAX_CONCURRENT" default:"8"`
}

type ContactConfig struct {
	Recipient string `envconfig:"BOBBIN_CONTACT_RECIPIENT" default:"officialfd2@gmail.com"`
	Sender    string `envconfig:"BOBBIN_CONTACT_SENDER" default:"onboarding@resend.dev"`
}

type MailerConfig struct {
	BaseURL string        `envconfig:"BOBBIN_MAILER_BASE_URL" default:"https://api.resend.com"`
	APIKey  string        `envconfig:"BOBBIN_MAILER_API_KEY"`
	Timeout time.Duration `envconfig:"BOBBIN_MAILER_TIMEOUT" default:"10s"`
}

type ImageKitConfig struct {
	PublicKey  string        `envconfig:"BOBBIN_IMAGEKIT_PUBLIC_KEY"`
	PrivateKey string        `envconfig:"BOBBIN_IMAGEKIT_PRIVATE_KEY"`
	TokenTTL   time.Duration `envconfig:"BOBBIN_IMAGEKIT_TOKEN_TTL" default:"30m"`
}

func (i ImageKitConfig) Configured() bool {
	return i.PublicKey != "" && i.PrivateKey != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BOBBIN_AUTO_MIGRATE" default:"true"`
}
