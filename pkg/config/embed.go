package config

import (
	_ "embed"

	"github.com/knadh/koanf/parsers/toml"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultConfigContent returns the embedded defaults file, comments included,
// as a starting point for a user or project file
func DefaultConfigContent() string {
	return string(defaultConfig)
}

// defaultsProvider serves the embedded defaults to koanf
type defaultsProvider struct{ data []byte }

func (p defaultsProvider) ReadBytes() ([]byte, error) { return p.data, nil }

func (p defaultsProvider) Read() (map[string]interface{}, error) {
	return toml.Parser().Unmarshal(p.data)
}
