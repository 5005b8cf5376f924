// Package resend delivers messages through the Resend HTTP API.
package resend

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("resend: api key is required")

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
}

// New creates a Resend sender.
func New(cfg Config) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Sender{client: resend.NewClient(cfg.APIKey)}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	req, err := toRequest(msg)
	if err != nil {
		return err
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func toRequest(msg *mailer.Message) (*resend.SendEmailRequest, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	to := make([]string, len(msg.To))
	for i, a := range msg.To {
		to[i] = a.String()
	}

	req := &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      to,
		Subject: msg.Subject,
	}
	if body := msg.Body(); body != nil {
		req.Html = string(body.Content)
	}
	if msg.MessageID != "" {
		req.Headers = map[string]string{"Message-ID": "<" + msg.MessageID + ">"}
	}

	for _, p := range msg.Attachments() {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    p.Filename,
			Content:     p.Content,
			ContentType: p.ContentType(),
		})
	}
	return req, nil
}
