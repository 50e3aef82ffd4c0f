// cmd/indexpub/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: testutil.FakeRunner, temp directories
// PURPOSE: Test command wiring from flags and configuration to the workflows

package indexpub

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/arthur-debert/indexpub/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publishOutput = "Submitted manifest\nSee https://github.com/crates/index/pull/123 for details\n"

func execute(t *testing.T, fake runner.Runner, args ...string) (string, error) {
	t.Helper()
	previous := newRunner
	newRunner = func() runner.Runner { return fake }
	t.Cleanup(func() { newRunner = previous })

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func publishEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("INDEXPUB_HOSTING_LOGIN", "octo")
	t.Setenv("INDEXPUB_GIT_SIGN_TAGS", "false")
	t.Setenv("INDEXPUB_MONITOR_LOG_DIR", t.TempDir())
}

func crateFake() *testutil.FakeRunner {
	fake := testutil.NewFakeRunner()
	fake.On("crate", "show", "--format", "json").Return(`{"name":"foo","version":"1.0.0"}`)
	return fake
}

func TestPublishCmd(t *testing.T) {
	t.Run("publishes and tags with flag overrides", func(t *testing.T) {
		publishEnv(t)
		pkg := t.TempDir()

		fake := crateFake()
		fake.On("crate", "publish").Return(publishOutput)
		fake.On("crate", "publish", "--status").Return("123 Checks_Passed\n")
		fake.On("crate", "publish", "--request-review=123").Return("")
		fake.On("git", "tag", "--list").Return("")
		fake.On("git", "tag", "-a").Return("")
		fake.On("git", "remote").Return("origin\n")
		fake.On("git", "fetch", "--tags").Return("")
		fake.On("git", "ls-remote", "--tags").Return("")
		fake.On("git", "push").Return("")

		out, err := execute(t, fake, "publish", pkg, "--force", "--backoff", "1ms", "--format", "json")
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "Done", result["state"])
		assert.Equal(t, "v1.0.0", result["tag"])
		assert.Equal(t, "origin", result["remote"])

		assert.True(t, fake.Called("crate", "publish", "--force"))
		assert.True(t, fake.Called("git", "tag", "-a", "v1.0.0", "-m", "Release v1.0.0"))
		for _, call := range fake.CallsTo("git") {
			assert.Equal(t, pkg, call.Dir, "git must run in the package repository")
		}
	})

	t.Run("renders the result when checks fail", func(t *testing.T) {
		publishEnv(t)
		fake := crateFake()
		fake.On("crate", "publish").Return(publishOutput)
		fake.On("crate", "publish", "--status").Return("123 Checks_Failed\n")

		out, err := execute(t, fake, "publish", t.TempDir(), "--backoff", "1ms", "--format", "json")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrChecksFailed))
		assert.Contains(t, out, `"state": "ChecksFailed"`)
		assert.False(t, fake.Called("git"))
	})

	t.Run("requires the hosting token", func(t *testing.T) {
		publishEnv(t)
		t.Setenv("GITHUB_TOKEN", "")
		fake := crateFake()

		_, err := execute(t, fake, "publish", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrCollaboratorUnavailable))
		assert.Empty(t, fake.Calls())
	})

	t.Run("looks the login up when not configured", func(t *testing.T) {
		publishEnv(t)
		t.Setenv("INDEXPUB_HOSTING_LOGIN", "")
		fake := crateFake()
		fake.On("gh", "api", "user").Fail(1, "HTTP 401: Bad credentials")

		_, err := execute(t, fake, "publish", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrCollaboratorUnavailable))
		assert.False(t, fake.Called("crate", "publish"))
	})

	t.Run("rejects a non-positive backoff", func(t *testing.T) {
		publishEnv(t)
		fake := crateFake()

		_, err := execute(t, fake, "publish", t.TempDir(), "--backoff", "0s")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
		assert.Empty(t, fake.Calls())
	})
}

func TestPrepareCmd(t *testing.T) {
	t.Run("requires the index repository", func(t *testing.T) {
		t.Setenv("INDEXPUB_INDEX_REPO", "")
		fake := testutil.NewFakeRunner()

		_, err := execute(t, fake, "prepare", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
		assert.Empty(t, fake.Calls())
	})

	t.Run("fails before touching the index on a bad path", func(t *testing.T) {
		t.Setenv("INDEXPUB_INDEX_REPO", "crates/index")
		fake := testutil.NewFakeRunner()
		missing := filepath.Join(t.TempDir(), "missing")

		_, err := execute(t, fake, "prepare", "--index-dir", t.TempDir(), missing)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPackage))
		assert.False(t, fake.Called("git"))
	})

	t.Run("needs at least one path", func(t *testing.T) {
		_, err := execute(t, testutil.NewFakeRunner(), "prepare")
		assert.Error(t, err)
	})
}

func TestStatusCmd(t *testing.T) {
	fake := crateFake()
	fake.On("crate", "publish", "--status").Return("122 Checks_Failed\n123 Checks_Passed\n")

	out, err := execute(t, fake, "status", t.TempDir(), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "#122 checks_failed")
	assert.Contains(t, out, "#123 checks_passed")
}

func TestConfigCmd(t *testing.T) {
	t.Run("prints derived values", func(t *testing.T) {
		t.Setenv("INDEXPUB_INDEX_REPO", "crates/index")

		out, err := execute(t, testutil.NewFakeRunner(), "config")
		require.NoError(t, err)
		assert.Contains(t, out, "repo: crates/index")
		assert.Contains(t, out, "url: https://github.com/crates/index.git")
		assert.Contains(t, out, "backoff: 30s")
	})

	t.Run("applies the --config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "indexpub.toml")
		require.NoError(t, os.WriteFile(path, []byte("[monitor]\nbackoff = \"5s\"\n"), 0644))

		out, err := execute(t, testutil.NewFakeRunner(), "--config", path, "config")
		require.NoError(t, err)
		assert.Contains(t, out, "backoff: 5s")
	})

	t.Run("prints the defaults template", func(t *testing.T) {
		out, err := execute(t, testutil.NewFakeRunner(), "config", "--defaults")
		require.NoError(t, err)
		assert.Contains(t, out, "[monitor]")
		assert.Contains(t, out, `backoff = "30s"`)
	})

	t.Run("fails on a missing --config file", func(t *testing.T) {
		_, err := execute(t, testutil.NewFakeRunner(), "--config", filepath.Join(t.TempDir(), "nope.toml"), "config")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("rejects an unknown format", func(t *testing.T) {
		_, err := execute(t, testutil.NewFakeRunner(), "--format", "xml", "config")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
