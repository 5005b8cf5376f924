package mailer

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailrelay/pkg/logger"
	"github.com/dmitrymomot/mailrelay/pkg/markdown"
)

// Mailer runs the render, fetch, assemble and deliver pipeline.
type Mailer struct {
	sender   Sender
	fetcher  Fetcher
	renderer *markdown.Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFetcher sets the attachment fetcher. Without one, requests that carry
// attachments fail with ErrFetchFailed.
func WithFetcher(f Fetcher) Option {
	return func(m *Mailer) {
		m.fetcher = f
	}
}

// WithClock overrides the Date header source.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Mailer. A nil renderer gets markdown.New().
func New(sender Sender, renderer *markdown.Renderer, opts ...Option) *Mailer {
	if renderer == nil {
		renderer = markdown.New()
	}
	m := &Mailer{
		sender:   sender,
		renderer: renderer,
		logger:   logger.NewNope(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendParams is one send request.
type SendParams struct {
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string
	// Subject falls back to the "subject" key of the body's metadata block.
	Subject     string
	Markdown    string
	Attachments []AttachmentSource
}

// AttachmentSource declares an attachment to fetch.
type AttachmentSource struct {
	URL         string
	Filename    string
	ContentType string
}

// Send renders, fetches, assembles and delivers. On failure it returns an
// *Error and nothing has been delivered.
func (m *Mailer) Send(ctx context.Context, p SendParams) error {
	doc := m.renderer.Render(p.Markdown)

	subject := p.Subject
	if subject == "" {
		subject = doc.MetaString("subject")
	}
	if subject == "" {
		subject = doc.MetaString("Subject")
	}

	attachments, err := m.fetchAll(ctx, p.Attachments)
	if err != nil {
		return err
	}

	msg, err := Assemble(Draft{
		FromName:    p.FromName,
		FromEmail:   p.FromEmail,
		ToName:      p.ToName,
		ToEmail:     p.ToEmail,
		Subject:     subject,
		HTML:        doc.HTML,
		Attachments: attachments,
	}, m.now())
	if err != nil {
		m.logger.WarnContext(ctx, "message assembly failed", slog.String("error", err.Error()))
		return err
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		m.logger.ErrorContext(ctx, "delivery failed",
			slog.String("message_id", msg.MessageID),
			slog.String("error", err.Error()),
		)
		return stageError(ErrDeliveryFailed, err)
	}

	m.logger.InfoContext(ctx, "email sent",
		slog.String("message_id", msg.MessageID),
		slog.String("to", p.ToEmail),
		slog.Int("attachments", len(attachments)),
	)
	return nil
}

// fetchAll resolves sources strictly in order and stops at the first failure.
func (m *Mailer) fetchAll(ctx context.Context, sources []AttachmentSource) ([]Attachment, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	if m.fetcher == nil {
		return nil, stageError(ErrFetchFailed, ErrNoFetcher)
	}

	out := make([]Attachment, 0, len(sources))
	for i, src := range sources {
		content, err := m.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			m.logger.WarnContext(ctx, "attachment fetch failed",
				slog.Int("index", i),
				slog.String("url", src.URL),
				slog.String("error", err.Error()),
			)
			return nil, stageError(ErrFetchFailed, err)
		}
		out = append(out, Attachment{
			Filename:    src.Filename,
			ContentType: src.ContentType,
			Content:     content,
		})
	}
	return out, nil
}
