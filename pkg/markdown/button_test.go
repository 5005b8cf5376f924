package markdown_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/mailrelay/pkg/markdown"
)

func convert(t *testing.T, source string) string {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(markdown.NewButtonExtension()))
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte(source), &buf))
	return buf.String()
}

func TestButtonExtension(t *testing.T) {
	t.Parallel()

	t.Run("renders styled anchor", func(t *testing.T) {
		t.Parallel()

		out := convert(t, "[!button|Confirm](https://example.com/confirm)")
		require.Contains(t, out, `<a href="https://example.com/confirm" class="btn" style="`)
		require.Contains(t, out, `>Confirm</a>`)
	})

	t.Run("escapes label and drops dangerous urls", func(t *testing.T) {
		t.Parallel()

		out := convert(t, `[!button|<b>x</b>](javascript:alert(1))`)
		require.NotContains(t, out, "<b>x</b>")
		require.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
		require.Contains(t, out, `href=""`)
	})

	t.Run("inside surrounding markdown", func(t *testing.T) {
		t.Parallel()

		out := convert(t, "# Welcome\n\nPlease verify:\n\n[!button|Verify](https://example.com/v)\n\nThanks!")
		require.Contains(t, out, "<h1>Welcome</h1>")
		require.Contains(t, out, `href="https://example.com/v"`)
		require.Contains(t, out, "Thanks!")
	})

	t.Run("two buttons", func(t *testing.T) {
		t.Parallel()

		out := convert(t, "[!button|Yes](https://example.com/y) [!button|No](https://example.com/n)")
		require.Equal(t, 2, strings.Count(out, `class="btn"`))
	})

	t.Run("regular links are untouched", func(t *testing.T) {
		t.Parallel()

		out := convert(t, "[docs](https://example.com/docs)")
		require.Contains(t, out, `<a href="https://example.com/docs">docs</a>`)
		require.NotContains(t, out, `class="btn"`)
	})

	t.Run("incomplete syntax falls back to text", func(t *testing.T) {
		t.Parallel()

		out := convert(t, "[!button|Broken](https://example.com")
		require.NotContains(t, out, `class="btn"`)
	})
}
