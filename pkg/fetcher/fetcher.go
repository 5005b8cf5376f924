package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/mailrelay/pkg/cache"
	"github.com/dmitrymomot/mailrelay/pkg/logger"
	"github.com/dmitrymomot/mailrelay/pkg/storage"
)

// ObjectStore opens objects addressed by s3:// URLs.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Fetcher downloads attachments. It is safe for concurrent use.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	objects ObjectStore
	loader  *cache.Loader[[]byte]
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithObjectStore enables s3:// URLs.
func WithObjectStore(s ObjectStore) Option {
	return func(f *Fetcher) {
		f.objects = s
	}
}

// WithCache reads through c. Only complete 2xx downloads are stored.
func WithCache(c cache.Cache[[]byte], opts ...cache.LoaderOption) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.loader = cache.NewLoader(c, f.cfg.CacheTTL, opts...)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher.
func New(cfg Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL. Errors are always *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: err}
	}

	var load cache.LoadFunc[[]byte]
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if !f.hostAllowed(u.Hostname()) {
			return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: ErrHostNotAllowed}
		}
		load = func(ctx context.Context) ([]byte, bool, error) {
			return f.fetchHTTP(ctx, rawURL)
		}
	case "s3":
		if f.objects == nil {
			return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: ErrNoObjectStore}
		}
		load = func(ctx context.Context) ([]byte, bool, error) {
			data, err := f.fetchObject(ctx, rawURL)
			return data, err == nil, err
		}
	default:
		return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: ErrUnsupportedScheme}
	}

	if f.cfg.Timeout > 0 {
		fetch := load
		load = func(ctx context.Context) ([]byte, bool, error) {
			ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
			defer cancel()
			return fetch(ctx)
		}
	}

	if f.loader == nil {
		data, _, err := load(ctx)
		return data, err
	}
	data, err := f.loader.Load(ctx, rawURL, load)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: err}
		}
		return nil, err
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, &FetchError{Stage: StageRequest, URL: rawURL, Err: err}
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, &FetchError{Stage: StageRequest, URL: rawURL, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		f.logger.WarnContext(ctx, "attachment url returned non-2xx status",
			slog.String("url", rawURL),
			slog.Int("status", resp.StatusCode),
		)
	}

	data, err := f.readAll(resp.Body)
	if err != nil {
		return nil, false, &FetchError{Stage: StageBody, URL: rawURL, Err: err}
	}
	return data, ok, nil
}

func (f *Fetcher) fetchObject(ctx context.Context, rawURL string) ([]byte, error) {
	bucket, key, err := storage.ParseURL(rawURL)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: err}
	}

	body, err := f.objects.Get(ctx, bucket, key)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, URL: rawURL, Err: err}
	}
	defer body.Close()

	data, err := f.readAll(body)
	if err != nil {
		return nil, &FetchError{Stage: StageBody, URL: rawURL, Err: err}
	}
	return data, nil
}

func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	if f.cfg.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (f *Fetcher) hostAllowed(host string) bool {
	if len(f.cfg.AllowedHosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, allowed := range f.cfg.AllowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		switch {
		case allowed == "":
		case strings.HasPrefix(allowed, "."):
			if strings.HasSuffix(host, allowed) || host == allowed[1:] {
				return true
			}
		case host == allowed:
			return true
		}
	}
	return false
}

// unwrapURLError drops the *url.Error wrapper, whose text repeats the method
// and URL already carried by FetchError.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
