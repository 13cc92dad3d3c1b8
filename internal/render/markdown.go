// Package render derives the HTML form of an analysis from its markdown
// source. The provider writes GitHub-flavored markdown with meaningful
// single line breaks, so GFM and hard wraps are both on.
package render

import (
	"bytes"
	stdhtml "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Render converts markdown to HTML. It never fails: a conversion error
// degrades to an inline error block carrying the escaped source text so
// the analysis stays readable.
func (r *Renderer) Render(text string) string {
	if text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return fallback(text)
	}

	return buf.String()
}

func fallback(text string) string {
	return `<p class="render-error">Greška pri prikazu analize.</p><pre>` +
		stdhtml.EscapeString(text) + `</pre>`
}
