// Package config handles configuration management for indexpub.
// It layers embedded defaults, the user's XDG config file, a project
// .indexpub.toml, an explicit --config file and INDEXPUB_ environment
// variables, in that order.
package config
