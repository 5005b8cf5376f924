// Package markdown turns a markdown email body into an HTML fragment.
//
// The renderer enables the common extension set: GitHub-flavoured tables,
// strikethrough, autolinks and task lists, plus footnotes, definition lists,
// smart punctuation and explicit heading attributes. Raw HTML in the source
// is passed through; enable WithSanitize to filter the output through the
// email policy in pkg/sanitizer.
//
//	r := markdown.New(markdown.WithSanitize(true))
//	res := r.Render("---\nsubject: Hello\n---\n# Hi")
//	// res.HTML == "<h1>Hi</h1>\n", res.Metadata["subject"] == "Hello"
//
// A YAML metadata block at the very top of the source is removed before
// rendering and returned as Result.Metadata. A block that is not a valid YAML
// mapping is left in place and rendered like any other text.
//
// Call-to-action buttons use the syntax
//
//	[!button|Confirm address](https://example.com/confirm)
//
// Render never fails. A Renderer is immutable after New and safe for
// concurrent use.
package markdown
