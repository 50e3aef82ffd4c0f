package topics

import (
	"os"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

const defaultWrap = 80

// GlamourRenderer renders markdown topics with glamour. When Output is not
// a terminal the notty style is used so pipes and pagers get no escapes.
type GlamourRenderer struct {
	// Style is a glamour style path; empty or "auto" picks one for Output
	Style string
	// Width wraps output; 0 disables wrapping
	Width int
	// Output is the stream topics end up on
	Output *os.File

	once     sync.Once
	renderer *glamour.TermRenderer
	err      error
}

// NewGlamourRenderer creates a markdown renderer for stdout
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto", Width: defaultWrap, Output: os.Stdout}
}

func (r *GlamourRenderer) styleOption() glamour.TermRendererOption {
	switch {
	case r.Style != "" && r.Style != "auto":
		return glamour.WithStylePath(r.Style)
	case r.Output == nil || !isatty.IsTerminal(r.Output.Fd()):
		return glamour.WithStandardStyle("notty")
	default:
		return glamour.WithAutoStyle()
	}
}

func (r *GlamourRenderer) build() (*glamour.TermRenderer, error) {
	r.once.Do(func() {
		options := []glamour.TermRendererOption{r.styleOption()}
		if r.Width > 0 {
			options = append(options, glamour.WithWordWrap(r.Width))
		}
		r.renderer, r.err = glamour.NewTermRenderer(options...)
	})
	return r.renderer, r.err
}

// Render formats markdown topics; other extensions and rendering failures
// return the raw content
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" && ext != ".markdown" {
		return content
	}
	renderer, err := r.build()
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
