package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. INDEXPUB_MONITOR_BACKOFF
	EnvPrefix = "INDEXPUB_"
	// ProjectConfigName is looked up in the working directory
	ProjectConfigName = ".indexpub.toml"
)

// LoadOptions controls which configuration layers are read
type LoadOptions struct {
	// WorkDir is searched for ProjectConfigName. Defaults to ".".
	WorkDir string
	// ConfigFile is an explicit file loaded after the project file.
	ConfigFile string
	// SkipUserConfig ignores $XDG_CONFIG_HOME/indexpub/config.toml.
	SkipUserConfig bool
	// Overrides are applied last, keyed by dotted path (CLI flags).
	Overrides map[string]interface{}
}

// UserConfigPath returns the per-user configuration file location
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

// Load builds the effective configuration from all layers
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(defaultsProvider{data: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User and project files, when present
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	var files []string
	if !opts.SkipUserConfig {
		files = append(files, UserConfigPath())
	}
	files = append(files, filepath.Join(workDir, ProjectConfigName))
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// 3. Explicit file must exist
	if opts.ConfigFile != "" {
		if err := k.Load(file.Provider(opts.ConfigFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", opts.ConfigFile)
		}
	}

	// 4. Environment. Only the first underscore separates section from key,
	// so INDEXPUB_MANAGER_MANIFEST_DIR maps to manager.manifest_dir.
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	postProcessConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// postProcessConfig fills values derived from other keys
func postProcessConfig(cfg *Config) {
	if cfg.Index.URL == "" && cfg.Index.Repo != "" {
		cfg.Index.URL = fmt.Sprintf("https://%s/%s.git", cfg.Hosting.Host, cfg.Index.Repo)
	}
	if cfg.Index.Dir == "" && cfg.Index.Repo != "" {
		cfg.Index.Dir = filepath.Join(xdg.CacheHome, logging.AppName, cfg.Index.RepoName())
	}
	if cfg.Index.Remote == "" {
		cfg.Index.Remote = "origin"
	}
	if cfg.Monitor.LogDir == "" {
		cfg.Monitor.LogDir = filepath.Join(logging.StateDir(), "logs")
	}
	cfg.Manager.ManifestExt = strings.TrimPrefix(cfg.Manager.ManifestExt, ".")
}
