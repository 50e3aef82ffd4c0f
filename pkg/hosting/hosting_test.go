// pkg/hosting/hosting_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testutil.FakeRunner
// PURPOSE: Test hosting CLI command lines and output handling

package hosting_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/hosting"
	"github.com/arthur-debert/indexpub/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUser(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("gh", "api", "user").Return(`{"login": "octo", "id": 1}`)

	login, err := hosting.New(fake, "gh", "github.com").CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octo", login)
}

func TestCurrentUser_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *testutil.FakeRunner)
	}{
		{"command fails", func(f *testutil.FakeRunner) { f.On("gh", "api", "user").Fail(1, "not logged in") }},
		{"no login field", func(f *testutil.FakeRunner) { f.On("gh", "api", "user").Return(`{"id": 1}`) }},
		{"not json", func(f *testutil.FakeRunner) { f.On("gh", "api", "user").Return("oops") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeRunner()
			tt.setup(fake)

			_, err := hosting.New(fake, "gh", "").CurrentUser(context.Background())
			assert.True(t, errors.IsErrorCode(err, errors.ErrCollaboratorUnavailable))
		})
	}
}

func TestRepoExists(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("gh", "repo", "view", "octo/index").Return(`{"name":"index"}`)
	fake.On("gh", "repo", "view", "octo/missing").Fail(1, "Could not resolve to a Repository")
	client := hosting.New(fake, "gh", "")

	assert.True(t, client.RepoExists(context.Background(), "octo/index"))
	assert.False(t, client.RepoExists(context.Background(), "octo/missing"))
}

func TestFork(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("gh", "repo", "fork").Return("")

	require.NoError(t, hosting.New(fake, "gh", "").Fork(context.Background(), "crates/index"))
	assert.Equal(t, []string{"gh repo fork crates/index --clone=false"}, fake.CommandLines())
}

func TestCreatePullRequest(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("gh", "pr", "create").Return("Creating pull request\nhttps://github.com/crates/index/pull/42\n")

	url, err := hosting.New(fake, "gh", "").CreatePullRequest(context.Background(), hosting.PullRequest{
		Repo:  "crates/index",
		Head:  "octo:publish-foo=1.0.0",
		Base:  "main",
		Title: "foo 1.0.0",
		Body:  "- `foo=1.0.0`",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/crates/index/pull/42", url)

	calls := fake.CallsTo("gh", "pr", "create")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"pr", "create", "--repo", "crates/index", "--head", "octo:publish-foo=1.0.0",
		"--title", "foo 1.0.0", "--body", "- `foo=1.0.0`", "--base", "main"}, calls[0].Args)
}

func TestEnterpriseHostSetsEnv(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("gh", "repo", "fork").Return("")

	require.NoError(t, hosting.New(fake, "gh", "git.example.com").Fork(context.Background(), "a/b"))
	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"GH_HOST=git.example.com"}, calls[0].Env)
}

func TestRepoURL(t *testing.T) {
	assert.Equal(t, "https://github.com/octo/index.git", hosting.New(nil, "", "").RepoURL("octo/index"))
	assert.Equal(t, "https://git.example.com/a/b.git", hosting.New(nil, "", "git.example.com").RepoURL("a/b"))
}
