package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const buttonPrefix = "[!button|"

// buttonStyle is inlined because most mail clients ignore <style> blocks.
const buttonStyle = "display: inline-block; padding: 12px 24px; background-color: #2563eb; " +
	"color: #ffffff; border-radius: 6px; text-decoration: none; font-weight: bold;"

// KindButton is the AST kind of a call-to-action button.
var KindButton = ast.NewNodeKind("Button")

// ButtonNode is an inline call-to-action link.
type ButtonNode struct {
	ast.BaseInline
	Destination []byte
	Label       []byte
}

func (n *ButtonNode) Kind() ast.NodeKind { return KindButton }

func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Destination": string(n.Destination),
		"Label":       string(n.Label),
	}, nil)
}

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

// Parse accepts [!button|Label](destination) on a single line.
func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte(buttonPrefix)) {
		return nil
	}

	rest := line[len(buttonPrefix):]
	label, after, ok := bytes.Cut(rest, []byte("]("))
	if !ok || len(label) == 0 || bytes.IndexByte(label, ']') >= 0 {
		return nil
	}
	dest, _, ok := bytes.Cut(after, []byte{')'})
	if !ok {
		return nil
	}

	block.Advance(len(buttonPrefix) + len(label) + 2 + len(dest) + 1)
	return &ButtonNode{
		Destination: bytes.TrimSpace(dest),
		Label:       label,
	}
}

type buttonRenderer struct{}

func (buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, renderButton)
}

func renderButton(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ButtonNode)

	href := util.URLEscape(n.Destination, true)
	if html.IsDangerousURL(href) {
		href = nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(href))
	_, _ = w.WriteString(`" class="btn" style="` + buttonStyle + `">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkSkipChildren, nil
}

type buttonExtension struct{}

func (buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(buttonParser{}, 50)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(buttonRenderer{}, 50)))
}

// NewButtonExtension registers the call-to-action button syntax with goldmark.
func NewButtonExtension() goldmark.Extender {
	return buttonExtension{}
}
