package types

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
)

// PackageDescriptor identifies one release. It is resolved once from a
// package's source path and never modified afterwards.
type PackageDescriptor struct {
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version" yaml:"version"`
	SourcePath string `json:"source_path" yaml:"source_path"`
}

// Milestone returns the index key for this release
func (d PackageDescriptor) Milestone() Milestone {
	return Milestone{Name: d.Name, Version: d.Version}
}

// TagName is the source repository tag for this release
func (d PackageDescriptor) TagName() string {
	return "v" + d.Version
}

// Milestone is the index's canonical release key, name=version
type Milestone struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// String renders name=version
func (m Milestone) String() string {
	return m.Name + "=" + m.Version
}

// Display renders "name version", as used in commit messages
func (m Milestone) Display() string {
	return m.Name + " " + m.Version
}

// Milestones is an ordered, non-empty set of milestones for one run.
// Order is argument order and is significant.
type Milestones []Milestone

// NewMilestones builds the milestone set for the given descriptors
func NewMilestones(descriptors []PackageDescriptor) (Milestones, error) {
	if len(descriptors) == 0 {
		return nil, errors.New(errors.ErrInvalidPackage, "at least one package is required")
	}
	milestones := make(Milestones, 0, len(descriptors))
	for _, d := range descriptors {
		milestones = append(milestones, d.Milestone())
	}
	return milestones, nil
}

// BranchName derives publish-<m1>-<m2>-... keeping '=' literal
func (ms Milestones) BranchName() string {
	parts := make([]string, 0, len(ms)+1)
	parts = append(parts, "publish")
	for _, m := range ms {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "-")
}

// CommitMessage joins "name version" entries with ", "
func (ms Milestones) CommitMessage() string {
	parts := make([]string, 0, len(ms))
	for _, m := range ms {
		parts = append(parts, m.Display())
	}
	return strings.Join(parts, ", ")
}

// PullRequestTitle is the title of the combined review request
func (ms Milestones) PullRequestTitle() string {
	return ms.CommitMessage()
}

// PullRequestBody lists every release as a markdown bullet
func (ms Milestones) PullRequestBody() string {
	var b strings.Builder
	b.WriteString("Publishing:\n\n")
	for _, m := range ms {
		fmt.Fprintf(&b, "- `%s`\n", m.String())
	}
	return b.String()
}

// ManifestFile is a generated release manifest inside a package's working tree
type ManifestFile struct {
	Path    string `json:"path" yaml:"path"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Ext     string `json:"ext" yaml:"ext"`
}

// ManifestFileName returns <name>-<version>.<ext>
func ManifestFileName(name, version, ext string) string {
	return fmt.Sprintf("%s-%s.%s", name, version, strings.TrimPrefix(ext, "."))
}

// FileName returns the manifest's base name
func (m ManifestFile) FileName() string {
	return ManifestFileName(m.Name, m.Version, m.Ext)
}

// IndexPlacement is the destination of one manifest inside the index tree
type IndexPlacement struct {
	ClassificationRoot string `json:"classification_root" yaml:"classification_root"`
	Prefix             string `json:"prefix" yaml:"prefix"`
	Dir                string `json:"dir" yaml:"dir"`
	// Path is the placed file, set once the manifest was copied
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}
