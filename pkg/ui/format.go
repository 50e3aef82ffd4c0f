package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is the output format of command results and errors
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText for the output stream
	FormatAuto Format = iota
	// FormatTerminal renders styled output with colors and hyperlinks
	FormatTerminal
	// FormatText renders plain text
	FormatText
	// FormatJSON renders indented JSON
	FormatJSON
	// FormatYAML renders YAML
	FormatYAML
)

// formatNames lists canonical names first, then accepted aliases
var formatNames = []struct {
	name   string
	format Format
}{
	{"auto", FormatAuto},
	{"term", FormatTerminal},
	{"text", FormatText},
	{"json", FormatJSON},
	{"yaml", FormatYAML},
	{"terminal", FormatTerminal},
	{"plain", FormatText},
	{"yml", FormatYAML},
}

// FormatNames returns the canonical format names, for flag help and
// shell completion
func FormatNames() []string {
	var names []string
	seen := map[Format]bool{}
	for _, entry := range formatNames {
		if !seen[entry.format] {
			seen[entry.format] = true
			names = append(names, entry.name)
		}
	}
	return names
}

// String returns the canonical name of the format
func (f Format) String() string {
	for _, entry := range formatNames {
		if entry.format == f {
			return entry.name
		}
	}
	return "unknown"
}

// IsStructured reports whether the format is meant for machines
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat accepts a canonical name or alias, case-insensitively.
// The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, nil
	}
	for _, entry := range formatNames {
		if entry.name == s {
			return entry.format, nil
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want one of %s)",
		s, strings.Join(FormatNames(), ", "))
}

// DetectFormat chooses styled output for color-capable terminals and plain
// text otherwise, honoring NO_COLOR
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve turns FormatAuto into a concrete format for output. A nil
// output, such as an in-memory writer, resolves to FormatText.
func (f Format) Resolve(output *os.File) Format {
	if f != FormatAuto {
		return f
	}
	if output == nil {
		return FormatText
	}
	return DetectFormat(output)
}
