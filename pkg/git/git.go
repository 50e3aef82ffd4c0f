// Package git provides typed access to the git CLI for the index clone and
// the package's own repository. Every Repository method runs inside the
// repository directory; there is no ambient working directory.
package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/spf13/afero"
)

// Repository represents a git working tree at a specific directory
type Repository struct {
	runner runner.Runner
	binary string
	dir    string
	fs     afero.Fs
}

// NewRepository returns a Repository targeting dir on the real filesystem
func NewRepository(r runner.Runner, binary, dir string) *Repository {
	if binary == "" {
		binary = "git"
	}
	return &Repository{runner: r, binary: binary, dir: dir, fs: afero.NewOsFs()}
}

// WithFS sets the filesystem used to inspect and prepare the working tree.
// A nil fs keeps the current one.
func (r *Repository) WithFS(fs afero.Fs) *Repository {
	if fs != nil {
		r.fs = fs
	}
	return r
}

// Clone clones url into dir, creating dir's parent as needed
func Clone(ctx context.Context, r runner.Runner, binary, url, dir string) (*Repository, error) {
	repo := NewRepository(r, binary, dir)
	if err := repo.CloneFrom(ctx, url); err != nil {
		return nil, err
	}
	return repo, nil
}

// CloneFrom clones url into the repository directory
func (r *Repository) CloneFrom(ctx context.Context, url string) error {
	parent := filepath.Dir(r.dir)
	if err := r.fs.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to create %s", parent)
	}
	_, err := r.runner.Run(ctx, runner.Command{Dir: parent, Name: r.binary, Args: []string{"clone", url, r.dir}})
	return err
}

// Dir returns the repository directory
func (r *Repository) Dir() string {
	return r.dir
}

// IsCloned reports whether dir holds a git working tree
func (r *Repository) IsCloned() bool {
	_, err := r.fs.Stat(filepath.Join(r.dir, ".git"))
	return err == nil
}

// Run executes a git command in the repository and returns stdout
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	result, err := r.runner.Run(ctx, runner.Command{Dir: r.dir, Name: r.binary, Args: args})
	return result.Stdout, err
}

// DefaultBranch asks remote which branch its HEAD points at
func (r *Repository) DefaultBranch(ctx context.Context, remote string) (string, error) {
	out, err := r.Run(ctx, "ls-remote", "--symref", remote, "HEAD")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "ref:" && strings.HasPrefix(fields[1], "refs/heads/") {
			return strings.TrimPrefix(fields[1], "refs/heads/"), nil
		}
	}
	return "", errors.Newf(errors.ErrCommandFailed, "could not determine default branch of %s", remote).
		WithDetail("output", out)
}

// CurrentBranch returns the checked out branch name
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	return strings.TrimSpace(out), err
}

// Checkout switches to an existing branch
func (r *Repository) Checkout(ctx context.Context, branch string) error {
	_, err := r.Run(ctx, "checkout", branch)
	return err
}

// CheckoutReset creates branch at HEAD, or resets it there if it already
// exists, and checks it out
func (r *Repository) CheckoutReset(ctx context.Context, branch string) error {
	_, err := r.Run(ctx, "checkout", "-B", branch)
	return err
}

// PullFastForward fast-forwards branch from remote. Being already up to
// date is success.
func (r *Repository) PullFastForward(ctx context.Context, remote, branch string) error {
	_, err := r.Run(ctx, "pull", "--ff-only", remote, branch)
	return err
}

// AddAll stages every change in the working tree
func (r *Repository) AddAll(ctx context.Context) error {
	_, err := r.Run(ctx, "add", "-A")
	return err
}

// HasChanges reports whether the working tree or index differs from HEAD
func (r *Repository) HasChanges(ctx context.Context) (bool, error) {
	out, err := r.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit records the staged changes
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.Run(ctx, "commit", "-m", message)
	return err
}

// Remotes lists the configured remote names
func (r *Repository) Remotes(ctx context.Context) ([]string, error) {
	out, err := r.Run(ctx, "remote")
	if err != nil {
		return nil, err
	}
	var remotes []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			remotes = append(remotes, name)
		}
	}
	return remotes, nil
}

// AddRemote adds a remote. An existing remote of the same name is not an error.
func (r *Repository) AddRemote(ctx context.Context, name, url string) error {
	remotes, err := r.Remotes(ctx)
	if err == nil {
		for _, existing := range remotes {
			if existing == name {
				return nil
			}
		}
	}
	_, err = r.Run(ctx, "remote", "add", name, url)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

// Push pushes branch to remote and sets upstream. With force the remote
// branch is overwritten.
func (r *Repository) Push(ctx context.Context, remote, branch string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "-u", remote, branch)
	_, err := r.Run(ctx, args...)
	return err
}

// TagExists reports whether tag exists locally
func (r *Repository) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := r.Run(ctx, "tag", "--list", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == tag, nil
}

// CreateTag creates an annotated tag at HEAD, GPG-signed when sign is set
func (r *Repository) CreateTag(ctx context.Context, tag, message string, sign bool) error {
	mode := "-a"
	if sign {
		mode = "-s"
	}
	_, err := r.Run(ctx, "tag", mode, tag, "-m", message)
	return err
}

// FetchTags fetches all tags from remote
func (r *Repository) FetchTags(ctx context.Context, remote string) error {
	_, err := r.Run(ctx, "fetch", "--tags", remote)
	return err
}

// RemoteHasTag reports whether remote already carries tag
func (r *Repository) RemoteHasTag(ctx context.Context, remote, tag string) (bool, error) {
	out, err := r.Run(ctx, "ls-remote", "--tags", remote, "refs/tags/"+tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// PushTag pushes a single tag to remote
func (r *Repository) PushTag(ctx context.Context, remote, tag string) error {
	_, err := r.Run(ctx, "push", remote, "refs/tags/"+tag)
	return err
}
