package logger

// Config controls the stdout handler and optional Sentry fan-out.
// Embed it in the service config and parse with caarlos0/env.
type Config struct {
	Level  string       `env:"LEVEL" envDefault:"info"`
	Format string       `env:"FORMAT" envDefault:"json"`
	Sentry SentryConfig `envPrefix:"SENTRY_"`
}

// SentryConfig holds the Sentry integration settings.
type SentryConfig struct {
	DSN         string `env:"DSN"`
	Environment string `env:"ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level that creates a Sentry issue.
	MinLevel string `env:"MIN_LEVEL" envDefault:"error"`
}
