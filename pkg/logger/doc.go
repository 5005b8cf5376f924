// Package logger builds the service's structured logger on top of log/slog.
//
// Every logger produced here is wrapped in a decorator that runs a list of
// ContextExtractor functions on each record, so request-scoped values such as
// the request ID end up on every line logged with a request context:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "email delivered", slog.String("to", rcpt))
//	// {"level":"INFO","msg":"email delivered","to":"a@b.c","request_id":"0192..."}
//
// # Output
//
// Config.Format selects the stdout encoding ("json" or "text") and Config.Level
// the minimum level ("debug", "info", "warn", "error").
//
// # Sentry
//
// When Config.Sentry.DSN is set, records are fanned out to both stdout and
// Sentry. Records at or above Config.Sentry.MinLevel become Sentry events,
// warnings and errors are kept as Sentry logs. An empty DSN or a failed SDK
// initialization leaves stdout as the only destination.
//
// Call Flush during shutdown to drain buffered Sentry events:
//
//	app.Run(addr, internal.ShutdownHook(logger.Flush(2*time.Second)))
package logger
