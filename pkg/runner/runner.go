// Package runner executes the external collaborators (package manager, git,
// hosting CLI) as single blocking request/response calls. Output is buffered
// in full before it is returned so callers can inspect it as a whole.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes one external process invocation
type Command struct {
	// Dir is the working directory. Empty means the current directory.
	Dir  string
	Name string
	Args []string
	// Env is appended to the parent environment.
	Env []string
}

// String renders the command line for logs and error messages
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the buffered output of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int
}

// Runner runs external commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{logger: logging.GetLogger("runner")}
}

// Run executes cmd and waits for it. A non-zero exit returns the captured
// Result together with an ErrCommandFailed error; a missing binary is
// reported as ErrCollaboratorUnavailable.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	logging.LogCommand(r.logger, cmd.Dir, cmd.Name, cmd.Args)
	start := time.Now()

	var stdout, stderr bytes.Buffer
	combined := &lockedBuffer{}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Stdout = io.MultiWriter(&stdout, combined)
	execCmd.Stderr = io.MultiWriter(&stderr, combined)
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}

	err := execCmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
	}
	if execCmd.ProcessState != nil {
		result.ExitCode = execCmd.ProcessState.ExitCode()
		logging.LogCommandDone(r.logger, cmd.Name, result.ExitCode, time.Since(start))
	}

	if err == nil {
		return result, nil
	}

	if stderrors.Is(err, exec.ErrNotFound) {
		return result, errors.Wrapf(err, errors.ErrCollaboratorUnavailable,
			"%s is not installed or not on PATH", cmd.Name).
			WithDetail("command", cmd.Name)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	r.logger.Debug().
		Str("command", cmd.String()).
		Int("exitCode", result.ExitCode).
		Str("stderr", strings.TrimSpace(result.Stderr)).
		Msg("Command failed")

	return result, CommandError(cmd, result, err)
}

// CommandError builds the ErrCommandFailed error for a failed command,
// including trimmed stderr so the message is useful on its own.
func CommandError(cmd Command, result Result, cause error) error {
	msg := fmt.Sprintf("%s failed", cmd.String())
	if stderrText := strings.TrimSpace(result.Stderr); stderrText != "" {
		msg = fmt.Sprintf("%s failed (stderr: %s)", cmd.String(), stderrText)
	}
	if cause == nil {
		cause = fmt.Errorf("exit status %d", result.ExitCode)
	}
	return errors.Wrap(cause, errors.ErrCommandFailed, msg).
		WithDetail("exit_code", result.ExitCode).
		WithDetail("dir", cmd.Dir)
}

// lockedBuffer serialises the concurrent stdout and stderr copies into
// one interleaved stream
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
