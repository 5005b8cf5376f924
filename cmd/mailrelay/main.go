// Command mailrelay serves the HTTP mail relay.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/mailrelay/handlers"
	"github.com/dmitrymomot/mailrelay/internal"
	"github.com/dmitrymomot/mailrelay/internal/config"
	"github.com/dmitrymomot/mailrelay/middlewares"
	"github.com/dmitrymomot/mailrelay/pkg/fetcher"
	"github.com/dmitrymomot/mailrelay/pkg/logger"
	"github.com/dmitrymomot/mailrelay/pkg/mailer"
	"github.com/dmitrymomot/mailrelay/pkg/markdown"
)

// Extra write budget on top of the request deadline so timeout responses
// still reach the client.
const writeTimeoutSlack = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		_ = logger.Flush(2 * time.Second)(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	deps, err := wire(ctx, cfg, log)
	if err != nil {
		deps.close(ctx)
		return err
	}

	relay := mailer.New(deps.sender,
		markdown.New(cfg.Markdown.Options()...),
		mailer.WithLogger(log.With(slog.String("component", "mailer"))),
		mailer.WithFetcher(fetcher.New(cfg.Fetch, deps.fetcherOpts...)),
	)

	app := internal.New(
		internal.WithLogger(log),
		internal.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
		internal.WithWriteTimeout(cfg.HTTP.RequestTimeout+writeTimeoutSlack),

		internal.WithMiddleware(
			middlewares.Recover(),
			middlewares.RequestID(),
			middlewares.AccessLog(middlewares.WithAccessLogSkipPaths("/health/live", "/health/ready")),
			middlewares.Timeout(cfg.HTTP.RequestTimeout),
		),

		internal.WithHandlers(
			handlers.NewWelcome(),
			handlers.NewEmail(relay, handlers.WithStrictStatus(cfg.HTTP.StrictStatus)),
		),

		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),

		internal.WithHealthChecks(deps.checks...),
	)

	log.Info("mail relay configured",
		slog.String("env", cfg.AppEnv),
		slog.String("transport", cfg.Mail.Transport),
		slog.String("fetch_cache", cfg.Fetch.Cache),
		slog.Bool("s3", cfg.S3.Enabled),
		slog.Bool("strict_status", cfg.HTTP.StrictStatus),
	)

	opts := []internal.RunOption{
		internal.Address(cfg.HTTP.Addr),
		internal.Logger(log),
		internal.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	}
	for _, hook := range deps.shutdown {
		opts = append(opts, internal.ShutdownHook(hook))
	}
	opts = append(opts, internal.ShutdownHook(logger.Flush(2*time.Second)))

	return app.Run(opts...)
}
