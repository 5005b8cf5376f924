package fetcher

import "time"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config controls attachment downloads.
type Config struct {
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	MaxBytes  int64         `env:"MAX_BYTES" envDefault:"0"`
	UserAgent string        `env:"USER_AGENT" envDefault:"mailrelay/1.0"`
	// AllowedHosts restricts http(s) hosts. Entries starting with "." match
	// any subdomain. Empty allows every host.
	AllowedHosts []string `env:"ALLOWED_HOSTS" envSeparator:","`

	Cache           string        `env:"CACHE" envDefault:"none"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"256"`
}
