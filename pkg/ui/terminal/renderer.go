// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/ui/report"
	"github.com/arthur-debert/indexpub/pkg/ui/styles"
	"github.com/muesli/termenv"
)

// Renderer lays out reports with lipgloss styles and clickable links
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

func link(url string) string {
	return termenv.Hyperlink(url, styles.Render("Link", url))
}

func titleStyle(o report.Outcome) string {
	switch o {
	case report.OutcomeSuccess:
		return "Success"
	case report.OutcomeFailure:
		return "Error"
	default:
		return "Header"
	}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	rep, ok := report.Build(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}

	var b strings.Builder
	b.WriteString(styles.Render(titleStyle(rep.Outcome), rep.Title))
	b.WriteString("\n")
	for _, f := range rep.Fields {
		value := styles.Render("Value", f.Value)
		if f.Link {
			value = link(f.Value)
		}
		b.WriteString("  " + styles.Render("Label", f.Label) + value + "\n")
	}
	if len(rep.Items) > 0 {
		b.WriteString(styles.Render("Header", rep.ItemsTitle) + "\n")
		for _, item := range rep.Items {
			b.WriteString("  • " + styles.Render("FilePath", item) + "\n")
		}
	}
	for _, w := range rep.Warnings {
		b.WriteString(styles.Render("Warning", "! ") + w + "\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with its code highlighted and a link to
// the review request when there is one
func (r *Renderer) RenderError(err error) error {
	rep := report.FromError(err)

	var b strings.Builder
	b.WriteString(styles.Render("Error", "Error:") + " ")
	b.WriteString(styles.Render("ErrorCode", "["+rep.Code+"]") + " " + rep.Message + "\n")
	if rep.Review != "" {
		ref := rep.Review
		if strings.HasPrefix(ref, "http") {
			ref = link(ref)
		}
		b.WriteString("See " + ref + "\n")
	}
	if rep.Log != "" {
		b.WriteString(styles.Render("Muted", "Publish log: ") + styles.Render("FilePath", rep.Log) + "\n")
	}

	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Info", msg))
	return err
}
