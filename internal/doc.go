// Package internal is the HTTP shell of the mail relay.
//
// It wraps chi with a small set of types:
//
//   - App: owns routing, the middleware chain and graceful shutdown
//   - Context: request/response access, JSON binding and request-scoped logging
//   - Router: the interface handlers declare routes on
//   - Handler: implemented by types that declare routes
//   - HandlerFunc: a route handler returning an error
//   - Middleware: wraps a HandlerFunc
//   - ErrorHandler: renders errors returned by handlers and middleware
//
// # Context as context.Context
//
// Context embeds context.Context. Deadline, Done, Err and Value delegate to
// the request context, so a handler hands c straight to blocking calls:
//
//	func (h *EmailHandler) send(c internal.Context) error {
//	    if err := h.mailer.Send(c, params); err != nil {
//	        ...
//	    }
//	}
//
// A middleware that calls SetContext or Set changes the context seen by every
// handler below it.
//
// # Errors
//
// A non-nil error returned from a handler goes to the ErrorHandler unless the
// response was already started. HTTPError carries the status code and the
// message for the client:
//
//	return internal.ErrBadRequest("Invalid request body", internal.WithError(err))
//
// # Running
//
//	app := internal.New(
//	    internal.WithLogger(log),
//	    internal.WithMiddleware(middlewares.Recover(), middlewares.RequestID()),
//	    internal.WithHandlers(handlers.NewWelcome(), handlers.NewEmail(m)),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("smtp", s.Healthcheck)),
//	)
//	err := app.Run(internal.Address(":8080"), internal.Logger(log))
//
// Run listens until SIGINT, SIGTERM or cancellation of the WithContext
// context, then drains in-flight requests and runs shutdown hooks in order.
package internal
