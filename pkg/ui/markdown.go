package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for the terminal. With styled unset, or
// when glamour cannot render, the source is returned as is.
func RenderMarkdown(markdown string, styled bool, width int) string {
	if !styled {
		return markdown
	}
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

// Previewer returns a function printing a titled markdown document to w,
// styled when format is the terminal format
func Previewer(w io.Writer, format Format) func(title, markdown string) {
	return func(title, markdown string) {
		doc := "# " + title + "\n\n" + markdown
		_, _ = fmt.Fprintln(w, RenderMarkdown(doc, format == FormatTerminal, 0))
	}
}
