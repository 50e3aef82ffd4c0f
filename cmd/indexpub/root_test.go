package indexpub

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/indexpub/internal/version"
	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCmd_Structure(t *testing.T) {
	root := NewRootCmd()

	for name, group := range map[string]string{
		"prepare":    "core",
		"publish":    "core",
		"status":     "core",
		"config":     "misc",
		"topics":     "misc",
		"version":    "misc",
		"completion": "misc",
	} {
		cmd := findCommand(root, name)
		require.NotNil(t, cmd, "%s command should exist", name)
		assert.Equal(t, group, cmd.GroupID, name)
	}

	for _, flag := range []string{"verbose", "config", "format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}

	publish := findCommand(root, "publish")
	for _, flag := range []string{"force", "skip-build", "backoff", "timeout", "remote", "non-interactive"} {
		assert.NotNil(t, publish.Flags().Lookup(flag), flag)
	}
	prepare := findCommand(root, "prepare")
	for _, flag := range []string{"yes", "no-push", "no-pr", "index-dir"} {
		assert.NotNil(t, prepare.Flags().Lookup(flag), flag)
	}
}

func TestRootCmd_NoCommand(t *testing.T) {
	_, err := execute(t, testutil.NewFakeRunner())
	require.Error(t, err)
	assert.Contains(t, err.Error(), MsgErrNoCommand)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, testutil.NewFakeRunner(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "indexpub "+version.Version)
}

func TestTopics(t *testing.T) {
	t.Run("lists embedded topics", func(t *testing.T) {
		out, err := execute(t, testutil.NewFakeRunner(), "topics")
		require.NoError(t, err)
		for _, name := range []string{"workflow", "layout", "config", "states"} {
			assert.Contains(t, out, name)
		}
		assert.Contains(t, out, "--remote")
	})

	t.Run("shows a topic", func(t *testing.T) {
		out, err := execute(t, testutil.NewFakeRunner(), "help", "layout")
		require.NoError(t, err)
		assert.Contains(t, out, "classification")
	})
}

func TestCompletionCmd(t *testing.T) {
	out, err := execute(t, testutil.NewFakeRunner(), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "indexpub")
}

func TestRenderError(t *testing.T) {
	root := NewRootCmd()
	require.NoError(t, root.PersistentFlags().Set("format", "text"))

	err := errors.New(errors.ErrTimedOut, "review 123 still pending after 30m0s").
		WithDetail(errors.DetailReviewURL, "https://github.com/crates/index/pull/123")

	var out bytes.Buffer
	RenderError(root, &out, err)
	assert.Contains(t, out.String(), "Error: [TIMED_OUT] review 123 still pending after 30m0s")
	assert.Contains(t, out.String(), "See https://github.com/crates/index/pull/123")
}
