package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value store with per-entry TTL.
//
// A zero TTL passed to Set means the backend default. A negative TTL means
// the entry does not expire.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing or expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Marshaler converts values for byte-oriented backends.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// Bytes stores []byte values as-is.
type Bytes struct{}

func (Bytes) Marshal(v []byte) ([]byte, error)      { return v, nil }
func (Bytes) Unmarshal(data []byte) ([]byte, error) { return data, nil }

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Loader reads through a Cache, deduplicating concurrent loads of the same
// key. Each Loader has its own singleflight group.
type Loader[V any] struct {
	cache  Cache[V]
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	logger *slog.Logger
}

// WithLoaderLogger sets the logger used for cache backend errors.
func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(o *loaderOptions) {
		o.logger = l
	}
}

// NewLoader wraps c. Loaded values are stored with ttl.
func NewLoader[V any](c Cache[V], ttl time.Duration, opts ...LoaderOption) *Loader[V] {
	o := &loaderOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return &Loader[V]{cache: c, ttl: ttl, logger: o.logger}
}

// LoadFunc produces a value on a cache miss. It reports whether the value may
// be stored.
type LoadFunc[V any] func(ctx context.Context) (value V, store bool, err error)

// Load returns the cached value for key or calls fn to produce it. Callers
// that arrive while a load for the same key is in flight share its result,
// including its error. Errors are never cached.
//
// The shared load runs detached from the caller's cancellation, so one
// caller going away does not fail the others; fn must bound itself. A caller
// whose ctx ends stops waiting and gets ctx.Err().
func (l *Loader[V]) Load(ctx context.Context, key string, fn LoadFunc[V]) (V, error) {
	var zero V

	v, err := l.cache.Get(ctx, key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrNotFound) {
		l.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		val, store, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		if !store {
			return val, nil
		}
		if err := l.cache.Set(loadCtx, key, val, l.ttl); err != nil {
			l.logger.WarnContext(loadCtx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return val, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}
