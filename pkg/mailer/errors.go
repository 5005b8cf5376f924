package mailer

import "errors"

var (
	ErrFetchFailed    = errors.New("failed to download attachment")
	ErrInvalidAddress = errors.New("invalid email address")
	ErrEmptyMessage   = errors.New("no email body or attachments provided")
	ErrDeliveryFailed = errors.New("failed to send email")
	ErrNoFetcher      = errors.New("attachments are not supported: no fetcher configured")
)

// Error is a pipeline failure. Kind is one of the sentinels above and Err is
// the underlying cause. Error() reports the cause so callers can surface it
// as-is, while errors.Is matches both Kind and anything Err wraps.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AsError extracts the pipeline error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func stageError(kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}
