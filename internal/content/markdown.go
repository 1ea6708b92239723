package content

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md renders without the html.WithUnsafe option, so raw HTML in content is
// dropped rather than passed through.
var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// RenderMarkdown converts markdown text from the portfolio into HTML.
func RenderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		slog.Warn("Failed to render markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark escapes raw HTML by default.
}
