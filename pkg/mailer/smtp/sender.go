// Package smtp delivers messages to an SMTP submission server.
//
// Every Send opens its own connection, so a single Sender is safe to share
// between concurrent requests. Delivery is attempted exactly once.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
)

// Sender implements mailer.Sender over SMTP.
type Sender struct {
	cfg    Config
	dialer *net.Dialer
}

// New validates cfg and creates a Sender.
func New(cfg Config) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HELO == "" {
		cfg.HELO = "localhost"
	}
	return &Sender{cfg: cfg, dialer: &net.Dialer{}}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	raw, err := msg.Bytes()
	if err != nil {
		return err
	}
	from, to := msg.Envelope()

	c, done, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := c.SendMail(from, to, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	// The message is accepted once DATA completes.
	_ = c.Quit()
	return nil
}

// Healthcheck opens a session and issues NOOP.
func (s *Sender) Healthcheck(ctx context.Context) error {
	c, done, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := c.Noop(); err != nil {
		return fmt.Errorf("smtp: noop: %w", err)
	}
	return c.Quit()
}

// connect dials, greets and authenticates. The returned func closes the
// connection and releases the context watcher.
func (s *Sender) connect(ctx context.Context) (*gosmtp.Client, func(), error) {
	cancel := context.CancelFunc(func() {})
	if s.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
	}

	conn, err := s.dial(ctx)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	c, err := s.newClient(conn)
	if err != nil {
		err = withContextErr(ctx, err)
		stop()
		cancel()
		_ = conn.Close()
		return nil, nil, err
	}

	timeout := s.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout > 0 {
		c.CommandTimeout = timeout
		c.SubmissionTimeout = timeout
	}

	done := func() {
		stop()
		cancel()
		_ = c.Close()
	}

	if err := s.handshake(c); err != nil {
		err = withContextErr(ctx, err)
		done()
		return nil, nil, err
	}
	return c, done, nil
}

// newClient wraps conn in a client. In STARTTLS mode the connection is
// upgraded before any credentials are sent.
func (s *Sender) newClient(conn net.Conn) (*gosmtp.Client, error) {
	if s.cfg.TLS != TLSStartTLS {
		return gosmtp.NewClient(conn), nil
	}

	c, err := gosmtp.NewClientStartTLS(conn, s.tlsConfig())
	if err != nil {
		// go-smtp reports a missing extension with an unexported error.
		if strings.Contains(err.Error(), "support STARTTLS") {
			return nil, ErrStartTLSUnsupported
		}
		return nil, fmt.Errorf("smtp: starttls: %w", err)
	}
	return c, nil
}

func withContextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("smtp: %w: %w", ctxErr, err)
	}
	return err
}

func (s *Sender) dial(ctx context.Context) (net.Conn, error) {
	conn, err := s.dialer.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("smtp: dial %s: %w", s.cfg.Addr(), err)
	}
	if s.cfg.TLS != TLSImplicit {
		return conn, nil
	}

	tlsConn := tls.Client(conn, s.tlsConfig())
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp: tls handshake: %w", err)
	}
	return tlsConn, nil
}

func (s *Sender) handshake(c *gosmtp.Client) error {
	if err := c.Hello(s.cfg.HELO); err != nil {
		return fmt.Errorf("smtp: hello: %w", err)
	}

	if s.cfg.Username != "" {
		auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}
	return nil
}

func (s *Sender) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.TLSSkipVerify, //nolint:gosec // opt-in for local relays
		MinVersion:         tls.VersionTLS12,
	}
}
