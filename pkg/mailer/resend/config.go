package resend

// Config holds Resend provider configuration.
type Config struct {
	APIKey string `env:"API_KEY"`
}
