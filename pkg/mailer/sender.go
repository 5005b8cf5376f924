package mailer

import "context"

// Sender delivers an assembled message. Implementations are shared across
// concurrent requests and must not keep per-message state.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg *Message) error

func (f SenderFunc) Send(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Fetcher retrieves attachment content by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
