package mbox_test

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
	mboxsender "github.com/dmitrymomot/mailrelay/pkg/mailer/mbox"
)

func assemble(t *testing.T, subject string) *mailer.Message {
	t.Helper()

	msg, err := mailer.Assemble(mailer.Draft{
		FromName:  "Alice",
		FromEmail: "alice@example.com",
		ToName:    "Bob",
		ToEmail:   "bob@example.org",
		Subject:   subject,
		HTML:      "<p>From the start of a line</p>\n",
	}, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	require.NoError(t, err)
	return msg
}

func readAll(t *testing.T, path string) []*mail.Message {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []*mail.Message
	r := mbox.NewReader(f)
	for {
		raw, err := r.NextMessage()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		msg, err := mail.ReadMessage(raw)
		require.NoError(t, err)
		out = append(out, msg)
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := mboxsender.New(mboxsender.Config{})
	require.ErrorIs(t, err, mboxsender.ErrMissingPath)
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "captured.mbox")
	s, err := mboxsender.New(mboxsender.Config{Path: path})
	require.NoError(t, err)

	first := assemble(t, "First")
	require.NoError(t, s.Send(context.Background(), first))
	require.NoError(t, s.Send(context.Background(), assemble(t, "Second")))

	msgs := readAll(t, path)
	require.Len(t, msgs, 2)
	assert.Equal(t, "First", msgs[0].Header.Get("Subject"))
	assert.Equal(t, "Second", msgs[1].Header.Get("Subject"))
	assert.Equal(t, "<"+first.MessageID+">", msgs[0].Header.Get("Message-Id"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSender_SendConcurrent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "captured.mbox")
	s, err := mboxsender.New(mboxsender.Config{Path: path})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Send(context.Background(), assemble(t, fmt.Sprintf("msg-%d", i))))
		}()
	}
	wg.Wait()

	assert.Len(t, readAll(t, path), n)
}

func TestSender_SendErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid message", func(t *testing.T) {
		t.Parallel()

		s, err := mboxsender.New(mboxsender.Config{Path: filepath.Join(t.TempDir(), "x.mbox")})
		require.NoError(t, err)
		require.Error(t, s.Send(context.Background(), &mailer.Message{}))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		s, err := mboxsender.New(mboxsender.Config{Path: filepath.Join(t.TempDir(), "x.mbox")})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, s.Send(ctx, assemble(t, "x")), context.Canceled)
	})

	t.Run("unwritable path", func(t *testing.T) {
		t.Parallel()

		s, err := mboxsender.New(mboxsender.Config{Path: filepath.Join(t.TempDir(), "missing", "x.mbox")})
		require.NoError(t, err)

		err = s.Send(context.Background(), assemble(t, "x"))
		require.ErrorContains(t, err, "mbox: open")
	})
}
