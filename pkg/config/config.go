package config

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/arthur-debert/indexpub/pkg/errors"
)

// Config is the effective indexpub configuration
type Config struct {
	Index   Index   `koanf:"index"`
	Manager Manager `koanf:"manager"`
	Git     Git     `koanf:"git"`
	Hosting Hosting `koanf:"hosting"`
	Monitor Monitor `koanf:"monitor"`
}

// Index locates the community index repository
type Index struct {
	Repo     string `koanf:"repo"`
	URL      string `koanf:"url"`
	Dir      string `koanf:"dir"`
	Sentinel string `koanf:"sentinel"`
	Remote   string `koanf:"remote"`
}

// Manager describes the package-manager CLI
type Manager struct {
	Binary       string `koanf:"binary"`
	ManifestDir  string `koanf:"manifest_dir"`
	ManifestExt  string `koanf:"manifest_ext"`
	NameField    string `koanf:"name_field"`
	VersionField string `koanf:"version_field"`
}

// Git holds version-control settings
type Git struct {
	Binary     string `koanf:"binary"`
	SignTags   bool   `koanf:"sign_tags"`
	TagMessage string `koanf:"tag_message"`
}

// Hosting describes the code-hosting CLI and credentials
type Hosting struct {
	Binary   string `koanf:"binary"`
	Host     string `koanf:"host"`
	Login    string `koanf:"login"`
	TokenEnv string `koanf:"token_env"`
}

// Monitor holds the review poll loop timing
type Monitor struct {
	Backoff time.Duration `koanf:"backoff"`
	Timeout time.Duration `koanf:"timeout"`
	LogDir  string        `koanf:"log_dir"`
}

// RepoName returns the name half of index.repo
func (i Index) RepoName() string {
	return path.Base(i.Repo)
}

// Validate checks settings every workflow relies on
func (c *Config) Validate() error {
	if c.Monitor.Backoff <= 0 {
		return errors.Newf(errors.ErrConfigInvalid, "monitor.backoff must be positive, got %s", c.Monitor.Backoff)
	}
	if c.Monitor.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigInvalid, "monitor.timeout must be positive, got %s", c.Monitor.Timeout)
	}
	if strings.TrimSpace(c.Index.Sentinel) == "" {
		return errors.New(errors.ErrConfigInvalid, "index.sentinel must not be empty")
	}
	if strings.TrimSpace(c.Manager.ManifestExt) == "" {
		return errors.New(errors.ErrConfigInvalid, "manager.manifest_ext must not be empty")
	}
	for key, value := range map[string]string{
		"manager.binary": c.Manager.Binary,
		"git.binary":     c.Git.Binary,
		"hosting.binary": c.Hosting.Binary,
	} {
		if strings.TrimSpace(value) == "" {
			return errors.Newf(errors.ErrConfigInvalid, "%s must not be empty", key)
		}
	}
	return nil
}

// ValidateIndex checks the settings the prepare workflow needs on top of Validate
func (c *Config) ValidateIndex() error {
	parts := strings.Split(c.Index.Repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.Newf(errors.ErrConfigInvalid,
			"index.repo must be owner/name, got %q (set it in .indexpub.toml or INDEXPUB_INDEX_REPO)", c.Index.Repo)
	}
	if c.Index.URL == "" || c.Index.Dir == "" {
		return errors.New(errors.ErrConfigInvalid, "index.url and index.dir could not be derived")
	}
	return nil
}

// Map renders the configuration as nested maps, durations as strings
func (c *Config) Map() map[string]interface{} {
	return map[string]interface{}{
		"index": map[string]interface{}{
			"repo":     c.Index.Repo,
			"url":      c.Index.URL,
			"dir":      c.Index.Dir,
			"sentinel": c.Index.Sentinel,
			"remote":   c.Index.Remote,
		},
		"manager": map[string]interface{}{
			"binary":        c.Manager.Binary,
			"manifest_dir":  c.Manager.ManifestDir,
			"manifest_ext":  c.Manager.ManifestExt,
			"name_field":    c.Manager.NameField,
			"version_field": c.Manager.VersionField,
		},
		"git": map[string]interface{}{
			"binary":      c.Git.Binary,
			"sign_tags":   c.Git.SignTags,
			"tag_message": c.Git.TagMessage,
		},
		"hosting": map[string]interface{}{
			"binary":    c.Hosting.Binary,
			"host":      c.Hosting.Host,
			"login":     c.Hosting.Login,
			"token_env": c.Hosting.TokenEnv,
		},
		"monitor": map[string]interface{}{
			"backoff": c.Monitor.Backoff.String(),
			"timeout": c.Monitor.Timeout.String(),
			"log_dir": c.Monitor.LogDir,
		},
	}
}

// TagMessageFor renders git.tag_message for a tag name
func (c *Config) TagMessageFor(tag string) string {
	if strings.Contains(c.Git.TagMessage, "%s") {
		return fmt.Sprintf(c.Git.TagMessage, tag)
	}
	if c.Git.TagMessage == "" {
		return "Release " + tag
	}
	return c.Git.TagMessage
}
