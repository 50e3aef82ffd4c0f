// Package layout maps package names onto the index's classification tree
// and copies manifests into it.
//
// The index groups packages under two-letter prefix directories. Their
// common parent, the classification root, is not fixed: it is found by
// looking for the sentinel prefix directory (normally "aa").
package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/arthur-debert/indexpub/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// PrefixLen is the length of a classification directory name
const PrefixLen = 2

// Layout performs discovery and placement on a filesystem
type Layout struct {
	fs       afero.Fs
	sentinel string
	logger   zerolog.Logger
}

// New creates a Layout on fs using sentinel as the discovery marker
func New(fs afero.Fs, sentinel string) *Layout {
	if sentinel == "" {
		sentinel = "aa"
	}
	return &Layout{fs: fs, sentinel: sentinel, logger: logging.GetLogger("layout")}
}

// NewOS creates a Layout on the real filesystem
func NewOS(sentinel string) *Layout {
	return New(afero.NewOsFs(), sentinel)
}

// DiscoverRoot finds the classification root under indexDir. Exactly one
// sentinel directory must exist; sentinel directories are not descended
// into, so a package that shares the sentinel's name does not count twice.
func (l *Layout) DiscoverRoot(indexDir string) (string, error) {
	var hits []string
	err := afero.Walk(l.fs, indexDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if info.Name() == ".git" {
			return filepath.SkipDir
		}
		if path != indexDir && info.Name() == l.sentinel {
			hits = append(hits, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrLayoutDiscoveryFailed, "failed to scan index at %s", indexDir)
	}

	switch len(hits) {
	case 0:
		return "", errors.Newf(errors.ErrLayoutDiscoveryFailed,
			"no %q classification directory found under %s", l.sentinel, indexDir).
			WithDetail("index_dir", indexDir)
	case 1:
		root := filepath.Dir(hits[0])
		l.logger.Debug().Str("root", root).Msg("Discovered classification root")
		return root, nil
	default:
		return "", errors.Newf(errors.ErrLayoutDiscoveryFailed,
			"%d %q classification directories found under %s, expected exactly one", len(hits), l.sentinel, indexDir).
			WithDetail("candidates", hits)
	}
}

// Placement computes where name's manifests live under root
func Placement(root, name string) (types.IndexPlacement, error) {
	if len([]rune(name)) < PrefixLen {
		return types.IndexPlacement{}, errors.Newf(errors.ErrPlacementFailed,
			"package name %q is too short to classify", name)
	}
	prefix := strings.ToLower(string([]rune(name)[:PrefixLen]))
	return types.IndexPlacement{
		ClassificationRoot: root,
		Prefix:             prefix,
		Dir:                filepath.Join(root, prefix, name),
	}, nil
}

// LocateManifest returns the manifest generated for d under manifestDir
// inside the package, or ManifestNotFound
func (l *Layout) LocateManifest(d types.PackageDescriptor, manifestDir, ext string) (types.ManifestFile, error) {
	m := types.ManifestFile{Name: d.Name, Version: d.Version, Ext: strings.TrimPrefix(ext, ".")}
	m.Path = filepath.Join(d.SourcePath, manifestDir, m.FileName())

	info, err := l.fs.Stat(m.Path)
	if err != nil || info.IsDir() {
		return types.ManifestFile{}, errors.Newf(errors.ErrManifestNotFound,
			"manifest %s was not generated for %s", m.FileName(), d.Milestone()).
			WithDetail("path", m.Path)
	}
	return m, nil
}

// Validate decodes TOML manifests so malformed output never reaches the
// index. Other extensions are accepted as they are.
func (l *Layout) Validate(m types.ManifestFile) error {
	if m.Ext != "toml" {
		return nil
	}
	data, err := afero.ReadFile(l.fs, m.Path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestNotFound, "failed to read manifest %s", m.Path)
	}
	var doc map[string]interface{}
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return errors.Wrapf(err, errors.ErrManifestInvalid, "manifest %s is not valid TOML", m.Path).
			WithDetail("path", m.Path)
	}
	return nil
}

// Place copies m into target.Dir, creating it as needed and overwriting a
// previous copy. The package's own manifest is left in place.
func (l *Layout) Place(m types.ManifestFile, target types.IndexPlacement) (types.IndexPlacement, error) {
	if err := l.fs.MkdirAll(target.Dir, 0755); err != nil {
		return target, errors.Wrapf(err, errors.ErrPlacementFailed, "failed to create %s", target.Dir)
	}
	data, err := afero.ReadFile(l.fs, m.Path)
	if err != nil {
		return target, errors.Wrapf(err, errors.ErrPlacementFailed, "failed to read manifest %s", m.Path)
	}
	dest := filepath.Join(target.Dir, m.FileName())
	if err := afero.WriteFile(l.fs, dest, data, 0644); err != nil {
		return target, errors.Wrapf(err, errors.ErrPlacementFailed, "failed to write %s", dest)
	}
	target.Path = dest

	l.logger.Info().
		Str("manifest", m.FileName()).
		Str("dest", dest).
		Msg("Placed manifest")
	return target, nil
}
