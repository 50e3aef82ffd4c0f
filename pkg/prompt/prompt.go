// Package prompt holds the operator decision points of both workflows as
// injectable strategies: the gate before anything is pushed, and the choice
// of remote for a release tag. Interactive implementations use pterm;
// automated contexts supply a fixed policy instead.
package prompt

import (
	"os"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// IsInteractive reports whether stdin is a terminal an operator can answer on
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirmer decides whether a gated step may proceed
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(question string) (bool, error)

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(question string) (bool, error) {
	return f(question)
}

// Always approves every gate
func Always() Confirmer {
	return ConfirmFunc(func(string) (bool, error) { return true, nil })
}

// Never declines every gate
func Never() Confirmer {
	return ConfirmFunc(func(string) (bool, error) { return false, nil })
}

// Interactive asks the operator, defaulting to no
func Interactive() Confirmer {
	return ConfirmFunc(func(question string) (bool, error) {
		ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
		if err != nil {
			return false, errors.Wrap(err, errors.ErrAborted, "failed to read confirmation")
		}
		return ok, nil
	})
}

// NewConfirmer picks the gate policy for the command line flags. Without an
// answer on the command line and no terminal to ask on, gates decline.
func NewConfirmer(yes, no bool) Confirmer {
	switch {
	case no:
		return Never()
	case yes:
		return Always()
	case IsInteractive():
		return Interactive()
	default:
		return Never()
	}
}

// RemoteChooser picks one of several configured remotes
type RemoteChooser interface {
	ChooseRemote(remotes []string) (string, error)
}

// RemoteChooserFunc adapts a function to RemoteChooser
type RemoteChooserFunc func(remotes []string) (string, error)

// ChooseRemote implements RemoteChooser
func (f RemoteChooserFunc) ChooseRemote(remotes []string) (string, error) {
	return f(remotes)
}

// SelectRemote resolves the remote to use. A fixed remote is always checked
// against remotes; other strategies only decide between several.
func SelectRemote(chooser RemoteChooser, remotes []string) (string, error) {
	if len(remotes) == 0 {
		return "", errors.New(errors.ErrTagPushFailed, "the repository has no remotes to push the tag to")
	}
	if fixed, ok := chooser.(fixedRemote); ok {
		return fixed.ChooseRemote(remotes)
	}
	if len(remotes) == 1 {
		return remotes[0], nil
	}
	if chooser == nil {
		chooser = FailIfAmbiguous()
	}
	return chooser.ChooseRemote(remotes)
}

// IsFixed reports whether chooser names its remote up front, so the choice
// can be checked before anything is published
func IsFixed(chooser RemoteChooser) bool {
	_, ok := chooser.(fixedRemote)
	return ok
}

// FailIfAmbiguous refuses to guess between several remotes
func FailIfAmbiguous() RemoteChooser {
	return RemoteChooserFunc(func(remotes []string) (string, error) {
		return "", errors.Newf(errors.ErrAmbiguousRemote,
			"%d remotes configured, choose one with --remote", len(remotes)).
			WithDetail("remotes", remotes)
	})
}

// FixedRemote always picks name, which must be one of the remotes
func FixedRemote(name string) RemoteChooser {
	return fixedRemote(name)
}

type fixedRemote string

func (f fixedRemote) ChooseRemote(remotes []string) (string, error) {
	for _, r := range remotes {
		if r == string(f) {
			return r, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "remote %q is not configured", string(f)).
		WithDetail("remotes", remotes)
}

// InteractiveRemote lets the operator pick from a list
func InteractiveRemote() RemoteChooser {
	return RemoteChooserFunc(func(remotes []string) (string, error) {
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions(remotes).
			Show("Push the release tag to which remote?")
		if err != nil {
			return "", errors.Wrap(err, errors.ErrAborted, "failed to read remote choice")
		}
		return choice, nil
	})
}

// NewRemoteChooser picks the strategy for the command line flags
func NewRemoteChooser(fixed string, nonInteractive bool) RemoteChooser {
	switch {
	case fixed != "":
		return FixedRemote(fixed)
	case nonInteractive || !IsInteractive():
		return FailIfAmbiguous()
	default:
		return InteractiveRemote()
	}
}
