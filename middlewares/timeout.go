package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailrelay/internal"
)

// DefaultTimeout is the default request deadline.
const DefaultTimeout = 2 * time.Minute

// Timeout returns middleware that attaches a deadline to the request context.
//
// The handler runs on the request goroutine and observes the deadline through
// c (fetches and SMTP dialogs abort when it fires). If the deadline passed and
// the handler wrote nothing, a *TimeoutError goes to the ErrorHandler.
// A handler that reports its own failure keeps its response.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request deadline exceeded", slog.Duration("timeout", timeout))
				if err == nil && !c.Written() {
					return &TimeoutError{Duration: timeout}
				}
			}
			return err
		}
	}
}
