package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mailrelay/internal"
	"github.com/dmitrymomot/mailrelay/internal/config"
	"github.com/dmitrymomot/mailrelay/pkg/cache"
	"github.com/dmitrymomot/mailrelay/pkg/fetcher"
	"github.com/dmitrymomot/mailrelay/pkg/mailer"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/logsender"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/mbox"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/resend"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/ses"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailrelay/pkg/redis"
	"github.com/dmitrymomot/mailrelay/pkg/storage"
)

const attachmentCachePrefix = "mailrelay:attachment:"

// dependencies are the long-lived clients built from config.
type dependencies struct {
	sender      mailer.Sender
	fetcherOpts []fetcher.Option
	checks      []internal.HealthOption
	shutdown    []func(context.Context) error
}

// close runs the shutdown hooks collected so far. Used when wiring fails
// before the server starts.
func (d *dependencies) close(ctx context.Context) {
	for _, fn := range d.shutdown {
		_ = fn(ctx)
	}
}

func wire(ctx context.Context, cfg *config.Config, log *slog.Logger) (*dependencies, error) {
	d := &dependencies{
		fetcherOpts: []fetcher.Option{
			fetcher.WithLogger(log.With(slog.String("component", "fetcher"))),
		},
	}

	sender, check, err := newSender(ctx, cfg, log)
	if err != nil {
		return d, err
	}
	d.sender = sender
	d.checks = append(d.checks, internal.WithReadinessCheck(cfg.Mail.Transport, check))

	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return d, fmt.Errorf("open redis: %w", err)
		}
		d.shutdown = append(d.shutdown, redis.Shutdown(client))
		d.checks = append(d.checks, internal.WithReadinessCheck("redis", redis.Healthcheck(client)))

		if cfg.Fetch.Cache == fetcher.CacheRedis {
			c := cache.NewRedis[[]byte](client, cache.Bytes{},
				cache.WithPrefix(attachmentCachePrefix),
				cache.WithRedisDefaultTTL(cfg.Fetch.CacheTTL),
			)
			d.fetcherOpts = append(d.fetcherOpts, fetcher.WithCache(c, cache.WithLoaderLogger(log)))
		}
	}

	if cfg.Fetch.Cache == fetcher.CacheMemory {
		c := cache.NewMemory[[]byte](
			cache.WithDefaultTTL(cfg.Fetch.CacheTTL),
			cache.WithMaxEntries(cfg.Fetch.CacheMaxEntries),
		)
		d.shutdown = append(d.shutdown, func(context.Context) error { return c.Close() })
		d.fetcherOpts = append(d.fetcherOpts, fetcher.WithCache(c, cache.WithLoaderLogger(log)))
	}

	if cfg.S3.Enabled {
		store, err := storage.New(ctx, cfg.S3)
		if err != nil {
			return d, fmt.Errorf("open s3: %w", err)
		}
		d.fetcherOpts = append(d.fetcherOpts, fetcher.WithObjectStore(store))
		d.checks = append(d.checks, internal.WithReadinessCheck("s3", store.Healthcheck))
	}

	return d, nil
}

// newSender builds the configured transport and, when it has one, its
// readiness check.
func newSender(ctx context.Context, cfg *config.Config, log *slog.Logger) (mailer.Sender, func(context.Context) error, error) {
	switch cfg.Mail.Transport {
	case config.TransportSMTP:
		s, err := smtp.New(cfg.SMTP)
		if err != nil {
			return nil, nil, fmt.Errorf("smtp transport: %w", err)
		}
		return s, s.Healthcheck, nil
	case config.TransportSES:
		s, err := ses.New(ctx, cfg.SES)
		if err != nil {
			return nil, nil, fmt.Errorf("ses transport: %w", err)
		}
		return s, nil, nil
	case config.TransportResend:
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, nil, fmt.Errorf("resend transport: %w", err)
		}
		return s, nil, nil
	case config.TransportMbox:
		s, err := mbox.New(cfg.Mbox)
		if err != nil {
			return nil, nil, fmt.Errorf("mbox transport: %w", err)
		}
		return s, nil, nil
	case config.TransportLog:
		return logsender.New(log), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidTransport, cfg.Mail.Transport)
	}
}
