package middlewares

import (
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/mailrelay/internal"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	SkipPaths []string // Exact paths that are not logged, e.g. health probes
}

// AccessLogOption configures AccessLogConfig.
type AccessLogOption func(*AccessLogConfig)

// WithAccessLogSkipPaths excludes paths from the access log.
func WithAccessLogSkipPaths(paths ...string) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.SkipPaths = append(cfg.SkipPaths, paths...)
	}
}

// AccessLog logs one record per request after the response is written.
// 5xx responses log at error, 4xx at warn, everything else at info.
// Place it after RequestID so records carry request_id.
func AccessLog(opts ...AccessLogOption) internal.Middleware {
	cfg := &AccessLogConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			req := c.Request()
			if slices.Contains(cfg.SkipPaths, req.URL.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			status := rw.Status()

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			c.Logger().LogAttrs(c, level, "http request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Int64("size", rw.Size()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", req.RemoteAddr),
				slog.String("user_agent", req.UserAgent()),
			)

			return err
		}
	}
}
