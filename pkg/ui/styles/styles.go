// Package styles holds the palette and named styles of indexpub's
// terminal output. The theme is read from the embedded styles.yaml.
package styles

import (
	_ "embed"
	"sort"
	"sync"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme is the YAML shape of a style sheet: a palette of adaptive colors
// and styles that refer to them by name
type Theme struct {
	Colors map[string]Swatch `yaml:"colors"`
	Styles map[string]Spec   `yaml:"styles"`
}

// Swatch is one palette entry, with a value per terminal background
type Swatch struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Spec describes one named style. Extends copies another style first;
// the remaining fields are applied on top.
type Spec struct {
	Extends      string `yaml:"extends,omitempty"`
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	Width        int    `yaml:"width,omitempty"`
	MarginBottom int    `yaml:"marginBottom,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
}

//go:embed styles.yaml
var embeddedTheme []byte

var (
	mu       sync.RWMutex
	compiled = map[string]lipgloss.Style{}
)

func init() {
	// An unreadable theme leaves every style plain.
	_ = Reset()
}

// Reset reloads the embedded theme
func Reset() error {
	return LoadStylesFromData(embeddedTheme)
}

// LoadStylesFromData compiles the theme in data and replaces the current
// styles. On error the current styles are kept.
func LoadStylesFromData(data []byte) error {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to parse styles")
	}
	out, err := theme.Compile()
	if err != nil {
		return err
	}
	mu.Lock()
	compiled = out
	mu.Unlock()
	return nil
}

// Compile resolves color references and extends chains into lipgloss
// styles
func (t Theme) Compile() (map[string]lipgloss.Style, error) {
	c := compiler{theme: t, done: map[string]lipgloss.Style{}, active: map[string]bool{}}
	names := make([]string, 0, len(t.Styles))
	for name := range t.Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := c.style(name); err != nil {
			return nil, err
		}
	}
	return c.done, nil
}

type compiler struct {
	theme  Theme
	done   map[string]lipgloss.Style
	active map[string]bool
}

func (c *compiler) style(name string) (lipgloss.Style, error) {
	if s, ok := c.done[name]; ok {
		return s, nil
	}
	spec, ok := c.theme.Styles[name]
	if !ok {
		return lipgloss.Style{}, errors.Newf(errors.ErrInternal, "style %q is not defined", name)
	}
	if c.active[name] {
		return lipgloss.Style{}, errors.Newf(errors.ErrInternal, "style %q extends itself", name)
	}
	c.active[name] = true
	defer delete(c.active, name)

	s := lipgloss.NewStyle()
	if spec.Extends != "" {
		base, err := c.style(spec.Extends)
		if err != nil {
			return lipgloss.Style{}, err
		}
		s = base
	}
	if spec.Bold {
		s = s.Bold(true)
	}
	if spec.Italic {
		s = s.Italic(true)
	}
	if spec.Underline {
		s = s.Underline(true)
	}
	if spec.Foreground != "" {
		color, err := c.color(name, spec.Foreground)
		if err != nil {
			return lipgloss.Style{}, err
		}
		s = s.Foreground(color)
	}
	if spec.Background != "" {
		color, err := c.color(name, spec.Background)
		if err != nil {
			return lipgloss.Style{}, err
		}
		s = s.Background(color)
	}
	if spec.Width > 0 {
		s = s.Width(spec.Width)
	}
	if spec.MarginBottom > 0 {
		s = s.MarginBottom(spec.MarginBottom)
	}
	if spec.PaddingLeft > 0 {
		s = s.PaddingLeft(spec.PaddingLeft)
	}
	c.done[name] = s
	return s, nil
}

func (c *compiler) color(style, ref string) (lipgloss.AdaptiveColor, error) {
	sw, ok := c.theme.Colors[ref]
	if !ok {
		return lipgloss.AdaptiveColor{}, errors.Newf(errors.ErrInternal, "style %q uses undefined color %q", style, ref)
	}
	return lipgloss.AdaptiveColor{Light: sw.Light, Dark: sw.Dark}, nil
}

// Get returns the named style, or a plain style when it is not defined
func Get(name string) lipgloss.Style {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := compiled[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text
func Render(name, text string) string {
	return Get(name).Render(text)
}

// Names lists the defined styles in order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(compiled))
	for name := range compiled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
