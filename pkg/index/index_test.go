// pkg/index/index_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: git binary, temp directories
// PURPOSE: Test index clone bootstrap and its idempotence

package index_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/index"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/arthur-debert/indexpub/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_ClonesThenConverges(t *testing.T) {
	upstream := testutil.NewGitUpstream(t, map[string]string{"aa/aardvark/aardvark-1.0.0.toml": "name = \"aardvark\"\n"})
	dir := filepath.Join(t.TempDir(), "cache", "index")
	opts := index.Options{GitBinary: "git", URL: upstream, Dir: dir}
	ctx := context.Background()

	session, err := index.Ensure(ctx, runner.NewExecRunner(), opts)
	require.NoError(t, err)
	assert.Equal(t, "main", session.DefaultBranch)
	assert.Equal(t, "origin", session.Remote)
	assert.FileExists(t, filepath.Join(dir, "aa", "aardvark", "aardvark-1.0.0.toml"))

	head := testutil.RunGit(t, dir, "rev-parse", "HEAD")

	session, err = index.Ensure(ctx, runner.NewExecRunner(), opts)
	require.NoError(t, err, "second run with nothing new must not fail")
	assert.Equal(t, head, testutil.RunGit(t, dir, "rev-parse", "HEAD"))
	assert.Empty(t, testutil.RunGit(t, dir, "status", "--porcelain"))
	assert.Equal(t, "main", session.DefaultBranch)
}

func TestEnsure_ReturnsToDefaultBranchAndFastForwards(t *testing.T) {
	upstream := testutil.NewGitUpstream(t, nil)
	dir := filepath.Join(t.TempDir(), "index")
	opts := index.Options{URL: upstream, Dir: dir}
	ctx := context.Background()

	session, err := index.Ensure(ctx, runner.NewExecRunner(), opts)
	require.NoError(t, err)
	require.NoError(t, session.StartBranch(ctx, "publish-foo=1.0.0"))
	assert.Equal(t, "publish-foo=1.0.0", session.Branch)

	testutil.PushToUpstream(t, upstream, "fo/foo/foo-0.1.0.toml", "name = \"foo\"\n")

	session, err = index.Ensure(ctx, runner.NewExecRunner(), opts)
	require.NoError(t, err)
	assert.Empty(t, session.Branch)
	branch, err := session.Repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
	assert.FileExists(t, filepath.Join(dir, "fo", "foo", "foo-0.1.0.toml"))
}

func TestEnsure_CommandOrderOnExistingClone(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))

	fake := testutil.NewFakeRunner()
	fake.On("git", "ls-remote", "--symref", "upstream", "HEAD").Return("ref: refs/heads/master\tHEAD\n")
	fake.On("git", "checkout").Return("")
	fake.On("git", "pull").Return("Already up to date.\n")

	session, err := index.Ensure(context.Background(), fake, index.Options{Dir: dir, Remote: "upstream"})
	require.NoError(t, err)
	assert.Equal(t, "master", session.DefaultBranch)
	assert.Equal(t, []string{
		"git ls-remote --symref upstream HEAD",
		"git checkout master",
		"git pull --ff-only upstream master",
	}, fake.CommandLines())
}

func TestEnsure_UsesInjectedFS(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("git", "clone").Return("")
	fake.On("git", "ls-remote").Return("ref: refs/heads/main\tHEAD\n")
	fake.On("git", "checkout").Return("")
	fake.On("git", "pull").Return("")

	fs := afero.NewMemMapFs()
	opts := index.Options{URL: "https://example.com/index.git", Dir: "/cache/index", FS: fs}
	_, err := index.Ensure(context.Background(), fake, opts)
	require.NoError(t, err)
	assert.True(t, fake.Called("git", "clone"), "an empty fs has no clone")

	require.NoError(t, fs.MkdirAll("/cache/index/.git", 0755))
	_, err = index.Ensure(context.Background(), fake, opts)
	require.NoError(t, err)
	assert.Len(t, fake.CallsTo("git", "clone"), 1, "an existing clone is reused")
}

func TestEnsure_Misconfigured(t *testing.T) {
	_, err := index.Ensure(context.Background(), testutil.NewFakeRunner(), index.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))

	_, err = index.Ensure(context.Background(), testutil.NewFakeRunner(), index.Options{Dir: t.TempDir()})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}
