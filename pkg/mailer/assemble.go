package mailer

import (
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// Draft is everything needed to assemble a Message.
type Draft struct {
	FromName    string
	FromEmail   string
	ToName      string
	ToEmail     string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Assemble validates the addresses and lays out the parts: the HTML body
// first, then every attachment in the order given. It returns an *Error with
// Kind ErrInvalidAddress when an address does not parse.
func Assemble(d Draft, now time.Time) (*Message, error) {
	from, err := parseAddress("sender", d.FromName, d.FromEmail)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress("recipient", d.ToName, d.ToEmail)
	if err != nil {
		return nil, err
	}

	parts := make([]Part, 0, 1+len(d.Attachments))
	parts = append(parts, Part{
		MediaType:   "text/html",
		Params:      map[string]string{"charset": "utf-8"},
		Disposition: DispositionInline,
		Content:     []byte(d.HTML),
	})
	for _, a := range d.Attachments {
		mediaType, params := parseMediaType(a.ContentType)
		parts = append(parts, Part{
			MediaType:   mediaType,
			Params:      params,
			Disposition: DispositionAttachment,
			Filename:    a.Filename,
			Content:     a.Content,
		})
	}

	msg := &Message{
		Date:      now,
		From:      from,
		To:        []*mail.Address{to},
		Subject:   d.Subject,
		MessageID: newMessageID(from.Address),
		Parts:     parts,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Validate checks the invariants WriteTo relies on.
func (m *Message) Validate() error {
	if len(m.Parts) == 0 {
		return stageError(ErrEmptyMessage, nil)
	}
	if m.From == nil || len(m.To) == 0 {
		return stageError(ErrInvalidAddress, fmt.Errorf("message has no sender or recipient"))
	}
	return nil
}

func parseAddress(role, name, email string) (*mail.Address, error) {
	addr, err := mail.ParseAddress(Recipient(name, email))
	if err != nil {
		return nil, stageError(ErrInvalidAddress, fmt.Errorf("invalid %s address %q: %w", role, Recipient(name, email), err))
	}
	return addr, nil
}

// parseMediaType splits a declared content type, falling back to
// application/octet-stream when it does not parse.
func parseMediaType(declared string) (string, map[string]string) {
	mediaType, params, err := mime.ParseMediaType(declared)
	if err != nil || !strings.Contains(mediaType, "/") {
		return MIMEOctetStream, nil
	}
	if len(params) == 0 {
		params = nil
	}
	return mediaType, params
}

func formatMediaType(mediaType string, params map[string]string) string {
	if s := mime.FormatMediaType(mediaType, params); s != "" {
		return s
	}
	return mediaType
}

// newMessageID returns a Message-ID (without angle brackets) under the
// sender's domain.
func newMessageID(sender string) string {
	domain := "localhost"
	if at := strings.LastIndexByte(sender, '@'); at >= 0 && at < len(sender)-1 {
		domain = sender[at+1:]
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String() + "@" + domain
}
