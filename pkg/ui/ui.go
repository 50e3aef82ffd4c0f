// Package ui renders command results and errors in the output format the
// operator asked for: styled terminal output, plain text, JSON or YAML.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/ui/json"
	"github.com/arthur-debert/indexpub/pkg/ui/terminal"
	"github.com/arthur-debert/indexpub/pkg/ui/text"
	"github.com/arthur-debert/indexpub/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a workflow result
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	case FormatYAML:
		return yaml.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
