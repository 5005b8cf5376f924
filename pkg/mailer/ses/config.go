package ses

// Config holds AWS SES configuration. Empty keys fall back to the default
// AWS credential chain.
type Config struct {
	Region           string `env:"REGION" envDefault:"us-east-1"`
	AccessKeyID      string `env:"ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"SECRET_ACCESS_KEY"`
	ConfigurationSet string `env:"CONFIGURATION_SET"`
}
