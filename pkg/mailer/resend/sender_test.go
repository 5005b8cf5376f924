package resend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrMissingAPIKey)

	s, err := New(Config{APIKey: "re_test"})
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestToRequest(t *testing.T) {
	t.Parallel()

	msg, err := mailer.Assemble(mailer.Draft{
		FromName:  "Alice",
		FromEmail: "alice@example.com",
		ToName:    "Bob",
		ToEmail:   "bob@example.org",
		Subject:   "Report",
		HTML:      "<p>see attached</p>",
		Attachments: []mailer.Attachment{
			{Filename: "a.csv", ContentType: "text/csv", Content: []byte("a,b")},
			{Filename: "b.bin", ContentType: "bogus", Content: []byte{0x01}},
		},
	}, time.Now())
	require.NoError(t, err)

	req, err := toRequest(msg)
	require.NoError(t, err)

	assert.Equal(t, `"Alice" <alice@example.com>`, req.From)
	assert.Equal(t, []string{`"Bob" <bob@example.org>`}, req.To)
	assert.Equal(t, "Report", req.Subject)
	assert.Equal(t, "<p>see attached</p>", req.Html)
	assert.Equal(t, "<"+msg.MessageID+">", req.Headers["Message-ID"])

	require.Len(t, req.Attachments, 2)
	assert.Equal(t, "a.csv", req.Attachments[0].Filename)
	assert.Equal(t, "text/csv", req.Attachments[0].ContentType)
	assert.Equal(t, []byte("a,b"), req.Attachments[0].Content)
	assert.Equal(t, "b.bin", req.Attachments[1].Filename)
	assert.Equal(t, mailer.MIMEOctetStream, req.Attachments[1].ContentType)
}

func TestToRequest_Invalid(t *testing.T) {
	t.Parallel()

	_, err := toRequest(&mailer.Message{})
	require.ErrorIs(t, err, mailer.ErrEmptyMessage)
}
