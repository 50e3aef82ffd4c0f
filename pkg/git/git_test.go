// pkg/git/git_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: git binary, temp directories
// PURPOSE: Test git adapter operations against real repositories

package git_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/git"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/arthur-debert/indexpub/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloneUpstream(t *testing.T) (*git.Repository, string) {
	t.Helper()
	upstream := testutil.NewGitUpstream(t, map[string]string{"index/aa/aardvark/aardvark-1.0.0.toml": "name = \"aardvark\"\n"})
	dir := filepath.Join(t.TempDir(), "clones", "index")

	repo, err := git.Clone(context.Background(), runner.NewExecRunner(), "git", upstream, dir)
	require.NoError(t, err)
	return repo, upstream
}

func TestClone_And_DefaultBranch(t *testing.T) {
	repo, _ := cloneUpstream(t)
	ctx := context.Background()

	assert.True(t, repo.IsCloned())

	branch, err := repo.DefaultBranch(ctx, "origin")
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", current)
}

func TestIsCloned_EmptyDir(t *testing.T) {
	repo := git.NewRepository(runner.NewExecRunner(), "git", t.TempDir())
	assert.False(t, repo.IsCloned())
}

func TestIsCloned_InjectedFS(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := git.NewRepository(testutil.NewFakeRunner(), "git", "/work/index").WithFS(fs)
	assert.False(t, repo.IsCloned())

	require.NoError(t, fs.MkdirAll("/work/index/.git", 0755))
	assert.True(t, repo.IsCloned())
}

func TestCloneFrom_PreparesParentOnInjectedFS(t *testing.T) {
	fs := afero.NewMemMapFs()
	fake := testutil.NewFakeRunner()
	fake.On("git", "clone").Return("")

	repo := git.NewRepository(fake, "git", "/cache/indexpub/index").WithFS(fs)
	require.NoError(t, repo.CloneFrom(context.Background(), "https://example.com/index.git"))

	exists, err := afero.DirExists(fs, "/cache/indexpub")
	require.NoError(t, err)
	assert.True(t, exists)

	calls := fake.CallsTo("git", "clone")
	require.Len(t, calls, 1)
	assert.Equal(t, "/cache/indexpub", calls[0].Dir)
	assert.Equal(t, []string{"clone", "https://example.com/index.git", "/cache/indexpub/index"}, calls[0].Args)
}

func TestPullFastForward_AlreadyUpToDate(t *testing.T) {
	repo, _ := cloneUpstream(t)
	ctx := context.Background()

	require.NoError(t, repo.PullFastForward(ctx, "origin", "main"))
	require.NoError(t, repo.PullFastForward(ctx, "origin", "main"), "up to date is not an error")
}

func TestCheckoutReset_CommitAndChanges(t *testing.T) {
	repo, _ := cloneUpstream(t)
	ctx := context.Background()

	require.NoError(t, repo.CheckoutReset(ctx, "publish-foo=1.0.0"))
	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "publish-foo=1.0.0", current)

	changed, err := repo.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	testutil.WriteFile(t, filepath.Join(repo.Dir(), "index", "fo", "foo", "foo-1.0.0.toml"), "name = \"foo\"\n")
	changed, err = repo.HasChanges(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, repo.AddAll(ctx))
	require.NoError(t, repo.Commit(ctx, "foo 1.0.0"))

	log := testutil.RunGit(t, repo.Dir(), "log", "-1", "--format=%s")
	assert.Equal(t, "foo 1.0.0", strings.TrimSpace(log))

	// Resetting the same branch name again moves it back to the checked out commit.
	require.NoError(t, repo.Checkout(ctx, "main"))
	require.NoError(t, repo.CheckoutReset(ctx, "publish-foo=1.0.0"))
	log = testutil.RunGit(t, repo.Dir(), "log", "-1", "--format=%s")
	assert.Equal(t, "initial", strings.TrimSpace(log))
}

func TestAddRemote_Idempotent(t *testing.T) {
	repo, upstream := cloneUpstream(t)
	ctx := context.Background()

	require.NoError(t, repo.AddRemote(ctx, "fork", upstream))
	require.NoError(t, repo.AddRemote(ctx, "fork", upstream), "existing remote is tolerated")

	remotes, err := repo.Remotes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"origin", "fork"}, remotes)
}

func TestPush_Branch(t *testing.T) {
	repo, upstream := cloneUpstream(t)
	ctx := context.Background()

	require.NoError(t, repo.CheckoutReset(ctx, "publish-foo=1.0.0"))
	require.NoError(t, repo.Push(ctx, "origin", "publish-foo=1.0.0", true))

	out := testutil.RunGit(t, upstream, "branch", "--list", "publish-foo=1.0.0")
	assert.Contains(t, out, "publish-foo=1.0.0")
}

func TestTags(t *testing.T) {
	repo, upstream := cloneUpstream(t)
	ctx := context.Background()

	exists, err := repo.TagExists(ctx, "v1.0.0")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateTag(ctx, "v1.0.0", "Release v1.0.0", false))
	exists, err = repo.TagExists(ctx, "v1.0.0")
	require.NoError(t, err)
	assert.True(t, exists)

	onRemote, err := repo.RemoteHasTag(ctx, "origin", "v1.0.0")
	require.NoError(t, err)
	assert.False(t, onRemote)

	require.NoError(t, repo.PushTag(ctx, "origin", "v1.0.0"))
	require.NoError(t, repo.FetchTags(ctx, "origin"))

	onRemote, err = repo.RemoteHasTag(ctx, "origin", "v1.0.0")
	require.NoError(t, err)
	assert.True(t, onRemote)
	assert.Contains(t, testutil.RunGit(t, upstream, "tag", "--list"), "v1.0.0")
}

func TestRun_FailureIsCommandError(t *testing.T) {
	repo, _ := cloneUpstream(t)

	_, err := repo.Run(context.Background(), "not-a-real-command")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
}

func TestDefaultBranch_ParsesSymref(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("git", "ls-remote", "--symref").Return("ref: refs/heads/trunk\tHEAD\n0123abcd\tHEAD\n")

	branch, err := git.NewRepository(fake, "git", "/index").DefaultBranch(context.Background(), "origin")
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}

func TestDefaultBranch_Unparseable(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("git", "ls-remote", "--symref").Return("0123abcd\tHEAD\n")

	_, err := git.NewRepository(fake, "git", "/index").DefaultBranch(context.Background(), "origin")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
}
