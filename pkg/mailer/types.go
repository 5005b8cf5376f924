package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// Content dispositions of a Part.
const (
	DispositionInline     = "inline"
	DispositionAttachment = "attachment"
)

// Fallback media type for attachments whose declared type does not parse.
const MIMEOctetStream = "application/octet-stream"

// Recipient formats a display name and address as "Name <email>".
// A blank name yields the bare address.
func Recipient(name, email string) string {
	if strings.TrimSpace(name) == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Message is an assembled email. It lives for one request only.
type Message struct {
	Date      time.Time
	From      *mail.Address
	Subject   string
	MessageID string
	To        []*mail.Address
	// Parts are serialized in order; Parts[0] is the HTML body.
	Parts []Part
}

// Part is a single MIME body part.
type Part struct {
	Params      map[string]string
	MediaType   string
	Disposition string
	Filename    string
	Content     []byte
}

// IsAttachment reports whether p is an attachment rather than the body.
func (p Part) IsAttachment() bool {
	return p.Disposition == DispositionAttachment
}

// ContentType returns the media type with its parameters.
func (p Part) ContentType() string {
	if len(p.Params) == 0 {
		return p.MediaType
	}
	return formatMediaType(p.MediaType, p.Params)
}

// Attachment is a fetched attachment ready for assembly.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Envelope returns the SMTP reverse-path and forward-paths.
func (m *Message) Envelope() (from string, to []string) {
	if m.From != nil {
		from = m.From.Address
	}
	to = make([]string, 0, len(m.To))
	for _, a := range m.To {
		to = append(to, a.Address)
	}
	return from, to
}

// Body returns the HTML body part, or nil when the message has none.
func (m *Message) Body() *Part {
	if len(m.Parts) == 0 || m.Parts[0].IsAttachment() {
		return nil
	}
	return &m.Parts[0]
}

// Attachments returns the attachment parts in order.
func (m *Message) Attachments() []Part {
	out := make([]Part, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p.IsAttachment() {
			out = append(out, p)
		}
	}
	return out
}
