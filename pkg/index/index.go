// Package index bootstraps the local clone of the community index and
// carries it through a run as an explicit Session value.
package index

import (
	"context"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/git"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/spf13/afero"
)

// Options locate the index and its upstream
type Options struct {
	GitBinary string
	URL       string
	Dir       string
	// Remote is the upstream remote name inside the clone
	Remote string
	// FS is where the clone lives. Defaults to the real filesystem.
	FS afero.Fs
}

// Session is the index clone a run works in. Workflows receive it instead
// of relying on the process working directory.
type Session struct {
	Dir           string
	Repo          *git.Repository
	Remote        string
	DefaultBranch string
	// Branch is the release branch once one was created
	Branch string
}

// Ensure clones the index when absent, otherwise checks out its default
// branch and fast-forwards it. Running it repeatedly converges on the same
// up-to-date state.
func Ensure(ctx context.Context, r runner.Runner, opts Options) (*Session, error) {
	logger := logging.GetLogger("index")
	done := logging.LogOperationStart(logger, "index bootstrap")
	defer done()

	if opts.Dir == "" {
		return nil, errors.New(errors.ErrConfigInvalid, "index directory is not configured")
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}

	repo := git.NewRepository(r, opts.GitBinary, opts.Dir).WithFS(opts.FS)
	if !repo.IsCloned() {
		if opts.URL == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "index is not cloned at %s and no index url is configured", opts.Dir)
		}
		logger.Info().Str("url", opts.URL).Str("dir", opts.Dir).Msg("Cloning index")
		if err := repo.CloneFrom(ctx, opts.URL); err != nil {
			return nil, err
		}
	}

	branch, err := repo.DefaultBranch(ctx, opts.Remote)
	if err != nil {
		return nil, err
	}
	if err := repo.Checkout(ctx, branch); err != nil {
		return nil, err
	}
	if err := repo.PullFastForward(ctx, opts.Remote, branch); err != nil {
		return nil, err
	}

	logger.Info().
		Str("dir", opts.Dir).
		Str("branch", branch).
		Msg("Index is up to date")

	return &Session{
		Dir:           opts.Dir,
		Repo:          repo,
		Remote:        opts.Remote,
		DefaultBranch: branch,
	}, nil
}

// StartBranch creates or resets branch in the clone and records it
func (s *Session) StartBranch(ctx context.Context, branch string) error {
	if err := s.Repo.CheckoutReset(ctx, branch); err != nil {
		return err
	}
	s.Branch = branch
	return nil
}
