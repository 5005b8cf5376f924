package mailer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emersion/go-message/mail"
)

// WriteTo serializes m as a multipart/mixed MIME message.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	var h mail.Header
	h.SetDate(m.Date)
	h.SetAddressList("From", []*mail.Address{m.From})
	h.SetAddressList("To", m.To)
	h.SetSubject(m.Subject)
	if m.MessageID != "" {
		h.SetMessageID(m.MessageID)
	}

	cw := &countingWriter{w: w}
	mw, err := mail.CreateWriter(cw, h)
	if err != nil {
		return cw.n, fmt.Errorf("create message writer: %w", err)
	}

	for i, p := range m.Parts {
		if err := writePart(mw, p); err != nil {
			return cw.n, fmt.Errorf("write part %d: %w", i, err)
		}
	}

	if err := mw.Close(); err != nil {
		return cw.n, fmt.Errorf("close message writer: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the serialized message.
func (m *Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(mw *mail.Writer, p Part) error {
	var (
		pw  io.WriteCloser
		err error
	)
	if p.IsAttachment() {
		var ah mail.AttachmentHeader
		ah.SetContentType(p.MediaType, p.Params)
		if p.Filename != "" {
			ah.SetFilename(p.Filename)
		}
		pw, err = mw.CreateAttachment(ah)
	} else {
		var ih mail.InlineHeader
		ih.SetContentType(p.MediaType, p.Params)
		pw, err = mw.CreateSingleInline(ih)
	}
	if err != nil {
		return err
	}

	if _, err := pw.Write(p.Content); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
