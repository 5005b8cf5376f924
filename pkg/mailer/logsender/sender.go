// Package logsender is a development transport that records messages in the
// log instead of delivering them.
package logsender

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
	"github.com/dmitrymomot/mailrelay/pkg/sanitizer"
)

const previewLen = 200

// Sender implements mailer.Sender by logging each message at info level.
type Sender struct {
	logger *slog.Logger
}

// New creates a Sender writing to logger.
func New(logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{logger: logger.With(slog.String("transport", "log"))}
}

// Send implements mailer.Sender. It only fails for messages that would not
// serialize.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	from, to := msg.Envelope()
	attrs := []any{
		slog.String("message_id", msg.MessageID),
		slog.String("from", from),
		slog.Any("to", to),
		slog.String("subject", msg.Subject),
	}
	if body := msg.Body(); body != nil {
		attrs = append(attrs, slog.String("preview", preview(string(body.Content))))
	}

	atts := msg.Attachments()
	if len(atts) > 0 {
		group := make([]any, 0, len(atts))
		for i, p := range atts {
			group = append(group, slog.Group(p.Filename,
				slog.Int("index", i),
				slog.String("content_type", p.ContentType()),
				slog.Int("size", len(p.Content)),
			))
		}
		attrs = append(attrs, slog.Group("attachments", group...))
	}

	s.logger.InfoContext(ctx, "email captured", attrs...)
	return nil
}

func preview(html string) string {
	text := sanitizer.StripHTML(html)
	if utf8.RuneCountInString(text) <= previewLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLen]) + "…"
}
