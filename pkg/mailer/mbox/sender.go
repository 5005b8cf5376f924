// Package mbox is a development transport that appends every message to an
// mbox file, so captured mail can be opened in any mail client.
package mbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/emersion/go-mbox"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
)

// ErrMissingPath is returned by New when no file path is configured.
var ErrMissingPath = errors.New("mbox: file path is required")

// Config configures the mbox transport.
type Config struct {
	Path string `env:"PATH" envDefault:"mail.mbox"`
}

// Sender implements mailer.Sender by appending to a single mbox file.
// Appends are serialized so concurrent requests never interleave.
type Sender struct {
	path string
	mu   sync.Mutex
}

// New creates a Sender appending to cfg.Path. The file is created on the
// first send.
func New(cfg Config) (*Sender, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}
	return &Sender{path: cfg.Path}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	raw, err := msg.Bytes()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from, _ := msg.Envelope()

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("mbox: open %s: %w", s.path, err)
	}

	w := mbox.NewWriter(f)
	mw, err := w.CreateMessage(from, msg.Date)
	if err == nil {
		_, err = mw.Write(raw)
	}
	if err == nil {
		err = w.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("mbox: append to %s: %w", s.path, err)
	}
	return nil
}
