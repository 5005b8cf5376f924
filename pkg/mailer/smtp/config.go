package smtp

import (
	"net"
	"strconv"
	"time"
)

// TLS modes.
const (
	TLSNone     = "none"
	TLSStartTLS = "starttls"
	TLSImplicit = "tls"
)

// Config holds SMTP submission settings.
type Config struct {
	Host          string        `env:"HOST" envDefault:"localhost"`
	Port          int           `env:"PORT" envDefault:"1025"`
	Username      string        `env:"USERNAME"`
	Password      string        `env:"PASSWORD"`
	TLS           string        `env:"TLS" envDefault:"none"`
	TLSSkipVerify bool          `env:"TLS_SKIP_VERIFY" envDefault:"false"`
	HELO          string        `env:"HELO" envDefault:"localhost"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrMissingHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	switch c.TLS {
	case TLSNone, TLSStartTLS, TLSImplicit:
	default:
		return ErrInvalidTLSMode
	}
	return nil
}
