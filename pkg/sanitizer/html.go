// Package sanitizer holds the bluemonday policies applied to HTML that ends
// up in outgoing mail.
package sanitizer

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	stripPolicy *bluemonday.Policy
	initOnce    sync.Once

	spaces = regexp.MustCompile(`\s+`)
)

func initPolicies() {
	initOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()

		// UGC covers headings, lists, tables, images and links. Rendered
		// markdown additionally needs task-list checkboxes, footnote ids and
		// the inline styles used by CTA buttons.
		emailPolicy = bluemonday.UGCPolicy()
		emailPolicy.AllowElements("del", "s", "sup", "section", "dl", "dt", "dd", "hr")
		emailPolicy.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
		emailPolicy.AllowAttrs("checked", "disabled").OnElements("input")
		emailPolicy.AllowAttrs("id").Matching(regexp.MustCompile(`^[A-Za-z0-9:_-]+$`)).Globally()
		emailPolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)).Globally()
		emailPolicy.AllowAttrs("role", "border", "cellpadding", "cellspacing", "align", "width").OnElements("table", "td")
		emailPolicy.AllowStyles("background-color", "color", "padding", "border-radius", "text-decoration",
			"font-weight", "display", "margin", "text-align").Globally()
		emailPolicy.RequireNoFollowOnLinks(false)
	})
}

// EmailHTML removes scripts, event handlers and unsafe URLs while keeping
// everything the markdown renderer produces.
func EmailHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// StripHTML returns the text content of s with whitespace collapsed.
func StripHTML(s string) string {
	initPolicies()
	return strings.TrimSpace(spaces.ReplaceAllString(stripPolicy.Sanitize(s), " "))
}

// Custom applies policy to s. A nil policy returns s unchanged.
func Custom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
