// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/indexpub/pkg/ui/report"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	rep, ok := report.Build(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}

	if _, err := fmt.Fprintln(r.output, rep.Title); err != nil {
		return err
	}
	for _, f := range rep.Fields {
		if _, err := fmt.Fprintf(r.output, "  %-14s %s\n", f.Label+":", f.Value); err != nil {
			return err
		}
	}
	if len(rep.Items) > 0 {
		if _, err := fmt.Fprintf(r.output, "%s:\n", rep.ItemsTitle); err != nil {
			return err
		}
		for _, item := range rep.Items {
			if _, err := fmt.Fprintf(r.output, "  - %s\n", item); err != nil {
				return err
			}
		}
	}
	for _, w := range rep.Warnings {
		if _, err := fmt.Fprintf(r.output, "Warning: %s\n", w); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	rep := report.FromError(err)
	if _, werr := fmt.Fprintf(r.output, "Error: %s\n", rep.Headline()); werr != nil {
		return werr
	}
	if rep.Review != "" {
		if _, werr := fmt.Fprintf(r.output, "See %s\n", rep.Review); werr != nil {
			return werr
		}
	}
	if rep.Log != "" {
		if _, werr := fmt.Fprintf(r.output, "Publish log: %s\n", rep.Log); werr != nil {
			return werr
		}
	}
	return nil
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
