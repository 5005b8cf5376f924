package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/mailrelay/pkg/sanitizer"
)

// Config is the env-tagged form of the renderer options.
type Config struct {
	Sanitize  bool `env:"SANITIZE" envDefault:"false"`
	HardWraps bool `env:"HARD_WRAPS" envDefault:"false"`
	Buttons   bool `env:"BUTTONS" envDefault:"true"`
}

// Options returns the renderer options matching c.
func (c Config) Options() []Option {
	return []Option{WithSanitize(c.Sanitize), WithHardWraps(c.HardWraps), WithButtons(c.Buttons)}
}

// Renderer converts markdown to HTML.
type Renderer struct {
	md       goldmark.Markdown
	sanitize bool
}

// Result is a rendered document.
type Result struct {
	// Metadata holds the parsed YAML metadata block, never nil.
	Metadata map[string]any
	HTML     string
}

type options struct {
	sanitize  bool
	hardWraps bool
	buttons   bool
}

// Option configures a Renderer.
type Option func(*options)

// WithSanitize filters rendered HTML through sanitizer.EmailHTML.
func WithSanitize(on bool) Option {
	return func(o *options) { o.sanitize = on }
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps(on bool) Option {
	return func(o *options) { o.hardWraps = on }
}

// WithButtons toggles the [!button|Label](url) syntax. Enabled by default.
func WithButtons(on bool) Option {
	return func(o *options) { o.buttons = on }
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	o := options{buttons: true}
	for _, opt := range opts {
		opt(&o)
	}

	exts := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		extension.DefinitionList,
		extension.Typographer,
	}
	if o.buttons {
		exts = append(exts, NewButtonExtension())
	}

	htmlOpts := []renderer.Option{gmhtml.WithUnsafe()}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithAttribute()),
			goldmark.WithRendererOptions(htmlOpts...),
		),
		sanitize: o.sanitize,
	}
}

// Render converts source to HTML, stripping a leading metadata block.
func (r *Renderer) Render(source string) *Result {
	meta, body := SplitMetadata([]byte(source))

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		// Convert only fails on writer errors; keep the text readable anyway.
		buf.Reset()
		buf.WriteString("<pre>" + html.EscapeString(string(body)) + "</pre>\n")
	}

	out := buf.String()
	if r.sanitize {
		out = sanitizer.EmailHTML(out)
	}
	return &Result{Metadata: meta, HTML: out}
}

// HTML is Render without the metadata.
func (r *Renderer) HTML(source string) string {
	return r.Render(source).HTML
}
