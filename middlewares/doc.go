// Package middlewares provides the HTTP middleware of the mail relay.
//
// The server installs them in this order:
//
//	internal.WithMiddleware(
//	    middlewares.Recover(),
//	    middlewares.RequestID(),
//	    middlewares.AccessLog(middlewares.WithAccessLogSkipPaths("/health/live", "/health/ready")),
//	    middlewares.Timeout(cfg.HTTP.RequestTimeout),
//	)
//
// # Request ID
//
// RequestID keeps an upstream X-Request-ID (or X-Correlation-ID) and generates
// a UUIDv7 otherwise. Build the logger with RequestIDExtractor so every record
// written with the request context carries request_id, including records from
// the mailer and the fetcher.
//
// # Recover
//
// Recover converts a panic into a *PanicError for the ErrorHandler:
//
//	if pe, ok := middlewares.AsPanicError(err); ok {
//	    return c.JSON(http.StatusInternalServerError, ...)
//	}
//
// # Access log
//
// AccessLog writes one record per request with method, path, status, size and
// duration. The level follows the status class.
//
// # Timeout
//
// Timeout attaches a deadline to the request context. The handler keeps
// running on the request goroutine; blocking calls made with c abort when the
// deadline fires. Only a handler that wrote nothing gets a *TimeoutError.
package middlewares
