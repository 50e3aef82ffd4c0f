// Package prepare implements the multi-release workflow: it turns an ordered
// list of package source paths into one branch and one commit in the index
// clone, then optionally pushes that branch to the operator's fork and opens
// a single combined pull request.
package prepare

import (
	"context"
	"fmt"
	"path"

	"github.com/arthur-debert/indexpub/pkg/descriptor"
	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/hosting"
	"github.com/arthur-debert/indexpub/pkg/index"
	"github.com/arthur-debert/indexpub/pkg/layout"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/arthur-debert/indexpub/pkg/manager"
	"github.com/arthur-debert/indexpub/pkg/prompt"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/arthur-debert/indexpub/pkg/types"
	"github.com/rs/zerolog"
)

// Options configure one preparation run
type Options struct {
	Index index.Options
	// Upstream is the index repository as owner/name
	Upstream    string
	ManifestDir string
	ManifestExt string
	// Login overrides the hosting user lookup
	Login string
	// NoPush stops after the commit
	NoPush bool
	// NoPullRequest pushes without opening a pull request
	NoPullRequest bool
}

// Deps are the collaborators a Preparer drives
type Deps struct {
	Runner    runner.Runner
	Manager   *manager.Client
	Resolver  *descriptor.Resolver
	Hosting   *hosting.Client
	Layout    *layout.Layout
	Confirmer prompt.Confirmer
	// Preview shows the pull request body before the operator decides
	Preview func(title, markdown string)
}

// Result describes what a run produced
type Result struct {
	IndexDir       string                    `json:"index_dir" yaml:"index_dir"`
	Branch         string                    `json:"branch" yaml:"branch"`
	CommitMessage  string                    `json:"commit_message" yaml:"commit_message"`
	Packages       []types.PackageDescriptor `json:"packages" yaml:"packages"`
	Milestones     types.Milestones          `json:"milestones" yaml:"milestones"`
	Placements     []types.IndexPlacement    `json:"placements" yaml:"placements"`
	Fork           string                    `json:"fork,omitempty" yaml:"fork,omitempty"`
	Pushed         bool                      `json:"pushed" yaml:"pushed"`
	PullRequestURL string                    `json:"pull_request_url,omitempty" yaml:"pull_request_url,omitempty"`

	session *index.Session
}

// Session returns the index session the run worked in
func (r *Result) Session() *index.Session {
	return r.session
}

// Preparer runs the multi-release workflow
type Preparer struct {
	deps   Deps
	opts   Options
	logger zerolog.Logger
}

// New creates a Preparer
func New(deps Deps, opts Options) *Preparer {
	if deps.Confirmer == nil {
		deps.Confirmer = prompt.Never()
	}
	return &Preparer{deps: deps, opts: opts, logger: logging.GetLogger("prepare")}
}

// Run prepares the releases at paths, in order. Every fatal condition aborts
// the whole run. Nothing in the index is touched until all packages resolve
// and the classification root is known; a failure after branching leaves
// the branch in place for inspection.
func (p *Preparer) Run(ctx context.Context, paths []string) (*Result, error) {
	done := logging.LogOperationStart(p.logger, "prepare")
	defer done()

	descriptors := make([]types.PackageDescriptor, 0, len(paths))
	for _, src := range paths {
		d, err := p.deps.Resolver.Resolve(ctx, src)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	milestones, err := types.NewMilestones(descriptors)
	if err != nil {
		return nil, err
	}

	session, err := index.Ensure(ctx, p.deps.Runner, p.opts.Index)
	if err != nil {
		return nil, err
	}
	root, err := p.deps.Layout.DiscoverRoot(session.Dir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		IndexDir:      session.Dir,
		Branch:        milestones.BranchName(),
		CommitMessage: milestones.CommitMessage(),
		Packages:      descriptors,
		Milestones:    milestones,
		session:       session,
	}

	if err := session.StartBranch(ctx, result.Branch); err != nil {
		return nil, err
	}
	p.logger.Info().Str("branch", result.Branch).Msg("Release branch checked out")

	for _, d := range descriptors {
		placement, err := p.placeManifest(ctx, d, root)
		if err != nil {
			return result, err
		}
		result.Placements = append(result.Placements, placement)
	}

	if err := p.commit(ctx, session, result.CommitMessage); err != nil {
		return result, err
	}

	if p.opts.NoPush {
		p.logger.Info().Msg("Push disabled, leaving the commit local")
		return result, nil
	}
	ok, err := p.deps.Confirmer.Confirm(fmt.Sprintf("Push %s to your fork of %s?", result.Branch, p.opts.Upstream))
	if err != nil {
		return result, err
	}
	if !ok {
		p.logger.Info().Msg("Push declined, leaving the commit local")
		return result, nil
	}

	login, err := p.pushToFork(ctx, session, result)
	if err != nil {
		return result, err
	}

	if p.opts.NoPullRequest {
		return result, nil
	}
	if p.deps.Preview != nil {
		p.deps.Preview(milestones.PullRequestTitle(), milestones.PullRequestBody())
	}
	ok, err = p.deps.Confirmer.Confirm(fmt.Sprintf("Open a pull request against %s?", p.opts.Upstream))
	if err != nil {
		return result, err
	}
	if !ok {
		return result, nil
	}

	url, err := p.deps.Hosting.CreatePullRequest(ctx, hosting.PullRequest{
		Repo:  p.opts.Upstream,
		Head:  login + ":" + result.Branch,
		Base:  session.DefaultBranch,
		Title: milestones.PullRequestTitle(),
		Body:  milestones.PullRequestBody(),
	})
	if err != nil {
		return result, err
	}
	result.PullRequestURL = url
	p.logger.Info().Str("url", url).Msg("Pull request opened")
	return result, nil
}

func (p *Preparer) placeManifest(ctx context.Context, d types.PackageDescriptor, root string) (types.IndexPlacement, error) {
	if _, err := p.deps.Manager.Publish(ctx, d.SourcePath, manager.PublishOptions{ManifestOnly: true}); err != nil {
		return types.IndexPlacement{}, err
	}

	manifest, err := p.deps.Layout.LocateManifest(d, p.opts.ManifestDir, p.opts.ManifestExt)
	if err != nil {
		return types.IndexPlacement{}, err
	}
	if err := p.deps.Layout.Validate(manifest); err != nil {
		return types.IndexPlacement{}, err
	}
	target, err := layout.Placement(root, d.Name)
	if err != nil {
		return types.IndexPlacement{}, err
	}
	return p.deps.Layout.Place(manifest, target)
}

func (p *Preparer) commit(ctx context.Context, session *index.Session, message string) error {
	if err := session.Repo.AddAll(ctx); err != nil {
		return err
	}
	changed, err := session.Repo.HasChanges(ctx)
	if err != nil {
		return err
	}
	if !changed {
		return errors.Newf(errors.ErrNothingToCommit, "the index already contains %s", message).
			WithDetail("branch", session.Branch)
	}
	if err := session.Repo.Commit(ctx, message); err != nil {
		return err
	}
	p.logger.Info().Str("message", message).Msg("Committed release manifests")
	return nil
}

// pushToFork makes sure the operator's fork exists and is a remote of the
// clone, then force pushes the release branch to it. It returns the login
// owning the fork.
func (p *Preparer) pushToFork(ctx context.Context, session *index.Session, result *Result) (string, error) {
	login := p.opts.Login
	if login == "" {
		var err error
		if login, err = p.deps.Hosting.CurrentUser(ctx); err != nil {
			return "", err
		}
	}

	fork := login + "/" + repoName(p.opts.Upstream)
	if !p.deps.Hosting.RepoExists(ctx, fork) {
		p.logger.Info().Str("upstream", p.opts.Upstream).Msg("Creating fork")
		if err := p.deps.Hosting.Fork(ctx, p.opts.Upstream); err != nil {
			return "", err
		}
	}
	if err := session.Repo.AddRemote(ctx, login, p.deps.Hosting.RepoURL(fork)); err != nil {
		return "", err
	}
	if err := session.Repo.Push(ctx, login, result.Branch, true); err != nil {
		return "", err
	}

	result.Fork = fork
	result.Pushed = true
	p.logger.Info().Str("fork", fork).Str("branch", result.Branch).Msg("Pushed release branch")
	return login, nil
}

func repoName(ownerName string) string {
	return path.Base(ownerName)
}
