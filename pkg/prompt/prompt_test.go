// pkg/prompt/prompt_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test confirmation policies and remote choice strategies

package prompt_test

import (
	"testing"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmPolicies(t *testing.T) {
	ok, err := prompt.Always().Confirm("push?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = prompt.Never().Confirm("push?")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = prompt.NewConfirmer(true, true).Confirm("push?")
	require.NoError(t, err)
	assert.False(t, ok, "declining wins over approving")

	ok, err = prompt.NewConfirmer(true, false).Confirm("push?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSelectRemote_SingleIsAutomatic(t *testing.T) {
	called := false
	chooser := prompt.RemoteChooserFunc(func([]string) (string, error) {
		called = true
		return "", nil
	})

	remote, err := prompt.SelectRemote(chooser, []string{"origin"})
	require.NoError(t, err)
	assert.Equal(t, "origin", remote)
	assert.False(t, called)
}

func TestSelectRemote_None(t *testing.T) {
	_, err := prompt.SelectRemote(prompt.FailIfAmbiguous(), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTagPushFailed))
}

func TestSelectRemote_Strategies(t *testing.T) {
	remotes := []string{"origin", "upstream"}

	_, err := prompt.SelectRemote(prompt.FailIfAmbiguous(), remotes)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousRemote))

	_, err = prompt.SelectRemote(nil, remotes)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousRemote))

	remote, err := prompt.SelectRemote(prompt.FixedRemote("upstream"), remotes)
	require.NoError(t, err)
	assert.Equal(t, "upstream", remote)

	_, err = prompt.SelectRemote(prompt.FixedRemote("fork"), remotes)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSelectRemote_FixedWithSingleRemote(t *testing.T) {
	_, err := prompt.SelectRemote(prompt.FixedRemote("upstream"), []string{"origin"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "a named remote is never swapped for the only one")

	remote, err := prompt.SelectRemote(prompt.FixedRemote("origin"), []string{"origin"})
	require.NoError(t, err)
	assert.Equal(t, "origin", remote)

	remote, err = prompt.SelectRemote(prompt.FailIfAmbiguous(), []string{"origin"})
	require.NoError(t, err)
	assert.Equal(t, "origin", remote)
}

func TestIsFixed(t *testing.T) {
	assert.True(t, prompt.IsFixed(prompt.FixedRemote("origin")))
	assert.True(t, prompt.IsFixed(prompt.NewRemoteChooser("origin", false)))
	assert.False(t, prompt.IsFixed(prompt.FailIfAmbiguous()))
	assert.False(t, prompt.IsFixed(nil))
}

func TestNewRemoteChooser(t *testing.T) {
	remotes := []string{"origin", "upstream"}

	remote, err := prompt.NewRemoteChooser("origin", true).ChooseRemote(remotes)
	require.NoError(t, err)
	assert.Equal(t, "origin", remote)

	_, err = prompt.NewRemoteChooser("", true).ChooseRemote(remotes)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousRemote))
}
