package storage

// Config holds S3 connection settings. Empty keys fall back to the default
// AWS credential chain.
type Config struct {
	// Enabled turns on s3:// attachment URLs.
	Enabled   bool   `env:"ENABLED" envDefault:"false"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	AccessKey string `env:"ACCESS_KEY_ID"`
	SecretKey string `env:"SECRET_ACCESS_KEY"`
	// Endpoint overrides the AWS endpoint, e.g. http://localhost:9000 for MinIO.
	Endpoint  string `env:"ENDPOINT"`
	PathStyle bool   `env:"PATH_STYLE" envDefault:"false"`
	// HealthBucket is probed by the readiness check when set.
	HealthBucket string `env:"HEALTH_BUCKET"`
}

func (c Config) validate() error {
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return ErrInvalidConfig
	}
	return nil
}
