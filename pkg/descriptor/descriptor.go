// Package descriptor turns a package source path into a validated
// PackageDescriptor using the package manager's show query.
//
// The machine-readable form of the query is authoritative. The human
// readable summary is only scanned when the structured query is unusable,
// and that fallback is logged because its format belongs to the package
// manager and may change without notice.
package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/jsonfield"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/arthur-debert/indexpub/pkg/manager"
	"github.com/arthur-debert/indexpub/pkg/types"
	"github.com/rs/zerolog"
)

// Fields names the JSON paths of name and version in the structured show output
type Fields struct {
	Name    string
	Version string
}

// DefaultFields matches a show output with top level name and version keys
var DefaultFields = Fields{Name: "name", Version: "version"}

// Resolver resolves package source paths
type Resolver struct {
	manager *manager.Client
	fields  Fields
	logger  zerolog.Logger
}

// NewResolver creates a Resolver querying m
func NewResolver(m *manager.Client, fields Fields) *Resolver {
	if fields.Name == "" {
		fields.Name = DefaultFields.Name
	}
	if fields.Version == "" {
		fields.Version = DefaultFields.Version
	}
	return &Resolver{manager: m, fields: fields, logger: logging.GetLogger("descriptor")}
}

// descriptorLine matches "name version", "name=version", "name@version" and
// "name vversion" at the start of a line. The version ends at whitespace or
// at a separator, as in the summary line "name=version: description".
var descriptorLine = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9_.-]*)(?:\s+|=|@)v?(\d+\.\d+\.\d+[^\s:,;)]*)`)

// Resolve validates path and extracts the package's name and version
func (r *Resolver) Resolve(ctx context.Context, path string) (types.PackageDescriptor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.PackageDescriptor{}, errors.Wrapf(err, errors.ErrInvalidPackage, "invalid package path %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return types.PackageDescriptor{}, errors.Wrapf(err, errors.ErrInvalidPackage, "package path %s does not exist", path).
			WithDetail("path", abs)
	}
	if !info.IsDir() {
		return types.PackageDescriptor{}, errors.Newf(errors.ErrInvalidPackage, "package path %s is not a directory", path).
			WithDetail("path", abs)
	}

	name, version, err := r.structured(ctx, abs)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrCollaboratorUnavailable) {
			return types.PackageDescriptor{}, err
		}
		r.logger.Warn().
			Err(err).
			Str("path", abs).
			Msg("Structured show query unusable, falling back to text output")

		name, version, err = r.text(ctx, abs)
		if err != nil {
			return types.PackageDescriptor{}, err
		}
	}

	normalized, err := NormalizeVersion(version)
	if err != nil {
		return types.PackageDescriptor{}, errors.Wrapf(err, errors.ErrInvalidPackage,
			"package %s has invalid version %q", name, version).WithDetail("path", abs)
	}

	d := types.PackageDescriptor{Name: name, Version: normalized, SourcePath: abs}
	r.logger.Debug().
		Str("name", d.Name).
		Str("version", d.Version).
		Str("path", abs).
		Msg("Resolved package")
	return d, nil
}

func (r *Resolver) structured(ctx context.Context, dir string) (string, string, error) {
	out, err := r.manager.ShowStructured(ctx, dir)
	if err != nil {
		return "", "", err
	}
	name, err := jsonfield.Extract([]byte(out), r.fields.Name)
	if err != nil {
		return "", "", err
	}
	version, err := jsonfield.Extract([]byte(out), r.fields.Version)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(version) == "" {
		return "", "", errors.New(errors.ErrInvalidPackage, "structured show output has an empty name or version")
	}
	return strings.TrimSpace(name), strings.TrimSpace(version), nil
}

func (r *Resolver) text(ctx context.Context, dir string) (string, string, error) {
	out, err := r.manager.ShowText(ctx, dir)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrCollaboratorUnavailable) {
			return "", "", err
		}
		return "", "", errors.Wrapf(err, errors.ErrInvalidPackage, "%s show failed in %s", r.manager.Binary(), dir).
			WithDetail("path", dir)
	}
	name, version, ok := ParseDescriptorLine(out)
	if !ok {
		return "", "", errors.Newf(errors.ErrInvalidPackage, "no package descriptor found in %s show output", r.manager.Binary()).
			WithDetail("path", dir).
			WithDetail("output", strings.TrimSpace(out))
	}
	return name, version, nil
}

// ParseDescriptorLine scans free-form show output for the first line that
// looks like a name and version pair
func ParseDescriptorLine(out string) (name, version string, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		if m := descriptorLine.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// NormalizeVersion validates v as a semantic version and returns it without
// a leading "v"
func NormalizeVersion(v string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if _, err := semver.StrictNewVersion(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
