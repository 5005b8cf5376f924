package internal

// Handler declares routes on a router.
//
// Example:
//
//	type EmailHandler struct {
//	    mailer *mailer.Mailer
//	}
//
//	func (h *EmailHandler) Routes(r internal.Router) {
//	    r.POST("/send_email", h.send)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands the request to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func Deadline(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) error {
//	        ctx, cancel := context.WithTimeout(c.Context(), time.Minute)
//	        defer cancel()
//	        c.SetContext(ctx)
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers and middleware.
type ErrorHandler func(Context, error) error
