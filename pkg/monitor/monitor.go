// Package monitor drives a single package publication through the remote
// review process and finalizes it.
//
// The workflow is a state machine:
//
//	Publishing -> AwaitingReview -> Polling -> ChecksPassed -> Finalizing -> Done
//	                                        \-> ChecksFailed
//	                                        \-> TimedOut
//
// with Failed reachable from every non-terminal state. Only ChecksPassed
// leads to Finalizing, so a failing, pending or unknown status never
// results in a tag or a push.
package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/indexpub/pkg/clock"
	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/git"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/arthur-debert/indexpub/pkg/manager"
	"github.com/arthur-debert/indexpub/pkg/prompt"
	"github.com/arthur-debert/indexpub/pkg/reviewtext"
	"github.com/arthur-debert/indexpub/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Defaults for the poll loop
const (
	DefaultBackoff = 30 * time.Second
	DefaultTimeout = 30 * time.Minute
)

// Options configure one publication
type Options struct {
	Publish manager.PublishOptions
	Backoff time.Duration
	Timeout time.Duration
	// SignTags creates GPG-signed tags instead of plain annotated ones
	SignTags bool
	// TagMessage renders the annotation for a tag name
	TagMessage func(tag string) string
	// LogDir receives the publish log. Empty disables it.
	LogDir string
}

// Deps are the collaborators a Monitor drives
type Deps struct {
	Manager *manager.Client
	// Repo is the package's own repository, where the release tag goes
	Repo    *git.Repository
	Clock   clock.Clock
	Remotes prompt.RemoteChooser
	FS      afero.Fs
}

// Result is the outcome of one publication, returned on success and failure
type Result struct {
	Package     types.PackageDescriptor `json:"package" yaml:"package"`
	Review      types.ReviewRequest     `json:"review" yaml:"review"`
	State       types.State             `json:"state" yaml:"state"`
	Transitions []types.Transition      `json:"transitions" yaml:"transitions"`
	Polls       int                     `json:"polls" yaml:"polls"`
	Elapsed     time.Duration           `json:"elapsed" yaml:"elapsed"`
	Tag         string                  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Remote      string                  `json:"remote,omitempty" yaml:"remote,omitempty"`
	Warnings    []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Monitor runs the publish-and-monitor workflow
type Monitor struct {
	deps   Deps
	opts   Options
	logger zerolog.Logger
}

// New creates a Monitor, filling unset options with defaults
func New(deps Deps, opts Options) *Monitor {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.Remotes == nil {
		deps.Remotes = prompt.FailIfAmbiguous()
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.TagMessage == nil {
		opts.TagMessage = func(tag string) string { return "Release " + tag }
	}
	return &Monitor{deps: deps, opts: opts, logger: logging.GetLogger("monitor")}
}

// run carries the mutable state of one publication
type run struct {
	m      *Monitor
	result *Result
	log    *publishLog
	logger zerolog.Logger
}

// Run publishes d and supervises its review. The returned Result is never
// nil; its State is terminal.
func (m *Monitor) Run(ctx context.Context, d types.PackageDescriptor) (*Result, error) {
	done := logging.LogOperationStart(m.logger, "publish")
	defer done()

	r := &run{
		m:      m,
		result: &Result{Package: d, State: types.StatePublishing},
		logger: m.logger.With().Str("package", d.Milestone().String()).Logger(),
	}
	r.logger.Info().Str("state", types.StatePublishing.String()).Msg("Publishing")

	if err := r.checkRemote(ctx); err != nil {
		return r.result, r.fail(err)
	}

	output, err := r.publish(ctx)
	if err != nil {
		return r.result, r.fail(err)
	}

	r.transition(types.StateAwaitingReview)
	id, url, err := reviewtext.ExtractID(output)
	if err != nil {
		return r.result, r.fail(r.withReview(err))
	}
	r.result.Review.ID = id
	r.result.Review.URL = url
	r.result.Review.Status = types.ReviewPending
	r.logger.Info().Str("review", r.result.Review.Reference()).Msg("Review request opened")

	r.transition(types.StatePolling)
	status, err := r.poll(ctx)
	if err != nil {
		return r.result, r.fail(err)
	}

	switch status {
	case types.ReviewChecksFailed:
		r.transition(types.StateChecksFailed)
		return r.result, r.withReview(errors.Newf(errors.ErrChecksFailed,
			"checks failed for %s", r.result.Review.Reference()))
	case types.ReviewChecksPassed:
		r.transition(types.StateChecksPassed)
	default:
		r.transition(types.StateTimedOut)
		return r.result, r.withReview(errors.Newf(errors.ErrTimedOut,
			"checks for %s did not finish within %s", r.result.Review.Reference(), m.opts.Timeout))
	}

	r.transition(types.StateFinalizing)
	if err := r.finalize(ctx); err != nil {
		return r.result, r.fail(err)
	}
	r.transition(types.StateDone)
	return r.result, nil
}

func (r *run) transition(to types.State) {
	from := r.result.State
	r.result.State = to
	r.result.Transitions = append(r.result.Transitions, types.Transition{From: from, To: to})
	r.logger.Info().
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("State transition")
	r.log.note("state %s -> %s", from, to)
}

// fail moves to Failed and returns err
func (r *run) fail(err error) error {
	r.transition(types.StateFailed)
	r.logger.Error().Err(err).Msg("Publication failed")
	return err
}

// checkRemote rejects a remote named up front that the repository does
// not have, before anything is published
func (r *run) checkRemote(ctx context.Context) error {
	if !prompt.IsFixed(r.m.deps.Remotes) {
		return nil
	}
	remotes, err := r.m.deps.Repo.Remotes(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrTagPushFailed, "failed to list remotes")
	}
	_, err = prompt.SelectRemote(r.m.deps.Remotes, remotes)
	return err
}

// withReview attaches the review reference details to err
func (r *run) withReview(err error) error {
	review := r.result.Review
	details := map[string]interface{}{}
	if review.URL != "" {
		details[errors.DetailReviewURL] = review.URL
	}
	if review.ID != "" {
		details[errors.DetailReviewID] = review.ID
	}
	if review.LogReference != "" {
		details[errors.DetailLog] = review.LogReference
	}
	if len(details) == 0 {
		return err
	}
	if coded, ok := err.(*errors.IndexpubError); ok {
		return coded.WithDetails(details)
	}
	return errors.Wrap(err, errors.GetErrorCode(err), err.Error()).WithDetails(details)
}

func (r *run) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.result.Warnings = append(r.result.Warnings, msg)
	r.logger.Warn().Msg(msg)
	r.log.note("warning: %s", msg)
}

// publish runs the submitting publish action and returns its combined output
func (r *run) publish(ctx context.Context) (string, error) {
	d := r.result.Package
	res, err := r.m.deps.Manager.Publish(ctx, d.SourcePath, r.m.opts.Publish)

	r.log = openPublishLog(r.m.deps.FS, r.m.opts.LogDir, d, r.m.deps.Clock.Now())
	if r.log.path != "" {
		r.result.Review.LogReference = r.log.path
	}
	if logErr := r.log.write("publish output", res.Combined); logErr != nil {
		r.warn("could not write publish log: %v", logErr)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.IsErrorCode(err, errors.ErrCollaboratorUnavailable) {
			return "", err
		}
		return "", r.withReview(errors.Wrapf(err, errors.ErrPublishActionFailed,
			"%s publish failed for %s", r.m.deps.Manager.Binary(), d.Milestone()))
	}
	return res.Combined, nil
}

// poll waits one backoff before every status query and stops on a definite
// status or once the accumulated wait exceeds the timeout. It returns
// ReviewPending on timeout.
func (r *run) poll(ctx context.Context) (types.ReviewStatus, error) {
	var elapsed time.Duration
	review := &r.result.Review

	for {
		if err := ctx.Err(); err != nil {
			return review.Status, err
		}
		select {
		case <-ctx.Done():
			return review.Status, ctx.Err()
		case <-r.m.deps.Clock.After(r.m.opts.Backoff):
		}
		elapsed += r.m.opts.Backoff
		r.result.Elapsed = elapsed

		out, err := r.m.deps.Manager.Status(ctx, r.result.Package.SourcePath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return review.Status, ctxErr
			}
			return review.Status, r.withReview(err)
		}
		r.result.Polls++
		if err := ctx.Err(); err != nil {
			return review.Status, err
		}

		review.Status = reviewtext.Classify(out, review.ID)
		r.logger.Debug().
			Int("poll", r.result.Polls).
			Dur("elapsed", elapsed).
			Str("status", string(review.Status)).
			Msg("Polled review status")
		r.log.note("poll %d after %s: %s", r.result.Polls, elapsed, review.Status)

		if review.Status != types.ReviewPending {
			return review.Status, nil
		}
		if elapsed > r.m.opts.Timeout {
			return types.ReviewPending, nil
		}
	}
}

// finalize promotes the review, tags the release and pushes the tag. A push
// failure keeps the local tag so the push can be retried by hand.
func (r *run) finalize(ctx context.Context) error {
	d := r.result.Package
	review := r.result.Review
	repo := r.m.deps.Repo

	if err := r.m.deps.Manager.RequestReview(ctx, d.SourcePath, review.ID); err != nil {
		return r.withReview(err)
	}
	r.logger.Info().Str("review", review.Reference()).Msg("Review requested")

	tag := d.TagName()
	r.result.Tag = tag
	exists, err := repo.TagExists(ctx, tag)
	if err != nil {
		return err
	}
	if exists {
		r.warn("tag %s already exists locally, reusing it", tag)
	} else {
		if err := repo.CreateTag(ctx, tag, r.m.opts.TagMessage(tag), r.m.opts.SignTags); err != nil {
			return err
		}
		r.logger.Info().Str("tag", tag).Bool("signed", r.m.opts.SignTags).Msg("Created tag")
	}

	remotes, err := repo.Remotes(ctx)
	if err != nil {
		return err
	}
	remote, err := prompt.SelectRemote(r.m.deps.Remotes, remotes)
	if err != nil {
		return err
	}
	r.result.Remote = remote

	if err := repo.FetchTags(ctx, remote); err != nil {
		if !strings.Contains(err.Error(), "would clobber") {
			return errors.Wrapf(err, errors.ErrTagPushFailed, "failed to fetch tags from %s", remote).
				WithDetail("tag", tag)
		}
		r.warn("remote %s has a different %s than the local one", remote, tag)
	}
	onRemote, err := repo.RemoteHasTag(ctx, remote, tag)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTagPushFailed, "failed to list tags on %s", remote).
			WithDetail("tag", tag)
	}
	if onRemote {
		r.warn("tag %s already exists on %s", tag, remote)
	}

	if err := repo.PushTag(ctx, remote, tag); err != nil {
		return errors.Wrapf(err, errors.ErrTagPushFailed, "failed to push %s to %s", tag, remote).
			WithDetail("tag", tag).
			WithDetail("remote", remote)
	}
	r.logger.Info().Str("tag", tag).Str("remote", remote).Msg("Pushed tag")
	return nil
}

// LogFileName names the publish log for d started at t
func LogFileName(d types.PackageDescriptor, t time.Time) string {
	return fmt.Sprintf("publish-%s-%s-%s.log", d.Name, d.Version, t.UTC().Format("20060102T150405Z"))
}

// publishLog is the durable record of one publication. A nil or pathless
// log discards everything.
type publishLog struct {
	fs   afero.Fs
	path string
}

func openPublishLog(fs afero.Fs, dir string, d types.PackageDescriptor, now time.Time) *publishLog {
	if dir == "" {
		return &publishLog{}
	}
	return &publishLog{fs: fs, path: filepath.Join(dir, LogFileName(d, now))}
}

func (l *publishLog) write(header, body string) error {
	if l == nil || l.path == "" {
		return nil
	}
	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return afero.WriteFile(l.fs, l.path, []byte("== "+header+" ==\n"+body), 0644)
}

func (l *publishLog) note(format string, args ...interface{}) {
	if l == nil || l.path == "" {
		return
	}
	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	_, _ = fmt.Fprintf(f, format+"\n", args...)
}
