// Package config loads the service configuration from the environment.
//
// Values come from process environment variables. For local development,
// .env.<APP_ENV> and .env are read first when present; variables already set
// in the process win over both files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/mailrelay/pkg/fetcher"
	"github.com/dmitrymomot/mailrelay/pkg/logger"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/mbox"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/resend"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/ses"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailrelay/pkg/markdown"
	"github.com/dmitrymomot/mailrelay/pkg/redis"
	"github.com/dmitrymomot/mailrelay/pkg/storage"
)

// Mail transports.
const (
	TransportSMTP   = "smtp"
	TransportSES    = "ses"
	TransportResend = "resend"
	TransportLog    = "log"
	TransportMbox   = "mbox"
)

var transports = []string{TransportSMTP, TransportSES, TransportResend, TransportLog, TransportMbox}

var (
	ErrParse            = errors.New("config: parse environment")
	ErrInvalidTransport = errors.New("config: unknown mail transport")
	ErrInvalidCache     = errors.New("config: unknown fetch cache backend")
	ErrRedisRequired    = errors.New("config: FETCH_CACHE=redis requires REDIS_URL")
	ErrResendKey        = errors.New("config: MAIL_TRANSPORT=resend requires RESEND_API_KEY")
	ErrInvalidTimeout   = errors.New("config: HTTP_REQUEST_TIMEOUT must be positive")
)

// Config is the full service configuration.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	HTTP     HTTPConfig      `envPrefix:"HTTP_"`
	Log      logger.Config   `envPrefix:"LOG_"`
	Mail     MailConfig      `envPrefix:"MAIL_"`
	SMTP     smtp.Config     `envPrefix:"SMTP_"`
	SES      ses.Config      `envPrefix:"SES_"`
	Resend   resend.Config   `envPrefix:"RESEND_"`
	Mbox     mbox.Config     `envPrefix:"MBOX_"`
	Fetch    fetcher.Config  `envPrefix:"FETCH_"`
	Redis    redis.Config    `envPrefix:"REDIS_"`
	S3       storage.Config  `envPrefix:"S3_"`
	Markdown markdown.Config `envPrefix:"MARKDOWN_"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `env:"ADDR" envDefault:"0.0.0.0:3001"`
	// StrictStatus maps pipeline failures to 4xx/5xx instead of always 200.
	StrictStatus    bool          `env:"STRICT_STATUS" envDefault:"false"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"2m"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// MailConfig selects the delivery transport.
type MailConfig struct {
	Transport string `env:"TRANSPORT" envDefault:"smtp"`
}

// Load reads the dotenv files for APP_ENV and parses the process environment.
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil, and validates it.
func Parse(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration that would fail at the first request
// rather than at startup.
func (c Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.HTTP.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	switch c.Mail.Transport {
	case TransportSMTP:
		if err := c.SMTP.Validate(); err != nil {
			return err
		}
	case TransportResend:
		if c.Resend.APIKey == "" {
			return ErrResendKey
		}
	default:
		if !slices.Contains(transports, c.Mail.Transport) {
			return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Mail.Transport)
		}
	}

	switch c.Fetch.Cache {
	case fetcher.CacheNone, fetcher.CacheMemory:
	case fetcher.CacheRedis:
		if !c.Redis.Enabled() {
			return ErrRedisRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCache, c.Fetch.Cache)
	}
	return nil
}

// loadDotenv loads .env.<APP_ENV> then .env. godotenv never overrides a
// variable that is already set, so the more specific file wins.
func loadDotenv() error {
	appEnv, err := env.ParseAs[struct {
		AppEnv string `env:"APP_ENV" envDefault:"development"`
	}]()
	if err != nil {
		return errors.Join(ErrParse, err)
	}

	for _, name := range []string{".env." + appEnv.AppEnv, ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", name, err)
		}
	}
	return nil
}
