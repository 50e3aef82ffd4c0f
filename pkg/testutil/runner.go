// pkg/testutil/runner.go
// DEPENDENCIES: pkg/runner
// PURPOSE: Scripted runner.Runner for exercising collaborator adapters without processes

package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/indexpub/pkg/runner"
)

// FakeRunner answers commands from registered stubs and records every call.
// Stubs are matched on binary name plus an argument prefix. The longest
// matching prefix wins and, among equals, the most recently registered
// stub, so tests can override defaults.
type FakeRunner struct {
	mu          sync.Mutex
	stubs       []*Stub
	calls       []runner.Command
	passthrough map[string]runner.Runner
}

// Stub is a scripted response for matching commands. Responses are consumed
// in order and the last one repeats.
type Stub struct {
	name      string
	prefix    []string
	responses []func(runner.Command) (runner.Result, error)
	served    int
}

// NewFakeRunner creates an empty FakeRunner; unmatched commands fail
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers a stub for commands named name whose args start with prefix
func (f *FakeRunner) On(name string, prefix ...string) *Stub {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &Stub{name: name, prefix: prefix}
	f.stubs = append(f.stubs, s)
	return s
}

// Return queues a successful response with the given stdout
func (s *Stub) Return(stdout string) *Stub {
	return s.Do(func(runner.Command) (runner.Result, error) {
		return runner.Result{Stdout: stdout, Combined: stdout}, nil
	})
}

// Fail queues a failing response with the given exit code and stderr
func (s *Stub) Fail(exitCode int, stderr string) *Stub {
	return s.Do(func(cmd runner.Command) (runner.Result, error) {
		result := runner.Result{Stderr: stderr, Combined: stderr, ExitCode: exitCode}
		return result, runner.CommandError(cmd, result, nil)
	})
}

// FailWithOutput queues a failing response that still produced stdout
func (s *Stub) FailWithOutput(exitCode int, stdout string) *Stub {
	return s.Do(func(cmd runner.Command) (runner.Result, error) {
		result := runner.Result{Stdout: stdout, Combined: stdout, ExitCode: exitCode}
		return result, runner.CommandError(cmd, result, nil)
	})
}

// Do queues an arbitrary response function
func (s *Stub) Do(fn func(runner.Command) (runner.Result, error)) *Stub {
	s.responses = append(s.responses, fn)
	return s
}

func (s *Stub) matches(cmd runner.Command) bool {
	if cmd.Name != s.name || len(cmd.Args) < len(s.prefix) {
		return false
	}
	for i, arg := range s.prefix {
		if cmd.Args[i] != arg {
			return false
		}
	}
	return true
}

func (s *Stub) next() func(runner.Command) (runner.Result, error) {
	if len(s.responses) == 0 {
		return func(runner.Command) (runner.Result, error) { return runner.Result{}, nil }
	}
	idx := s.served
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.served++
	return s.responses[idx]
}

// PassThrough sends commands for the named binaries to real processes.
// They are still recorded.
func (f *FakeRunner) PassThrough(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passthrough == nil {
		f.passthrough = make(map[string]runner.Runner)
	}
	for _, name := range names {
		f.passthrough[name] = runner.NewExecRunner()
	}
	return f
}

// Run implements runner.Runner
func (f *FakeRunner) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	if delegate, ok := f.passthrough[cmd.Name]; ok {
		f.mu.Unlock()
		return delegate.Run(ctx, cmd)
	}
	var best *Stub
	for _, s := range f.stubs {
		if s.matches(cmd) && (best == nil || len(s.prefix) >= len(best.prefix)) {
			best = s
		}
	}
	var respond func(runner.Command) (runner.Result, error)
	if best != nil {
		respond = best.next()
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return runner.Result{}, err
	}
	if respond == nil {
		result := runner.Result{ExitCode: 127, Stderr: "unexpected command"}
		return result, runner.CommandError(cmd, result, fmt.Errorf("no stub for %q", cmd.String()))
	}
	return respond(cmd)
}

// Calls returns every command run so far
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// CallsTo returns the recorded commands matching name and argument prefix
func (f *FakeRunner) CallsTo(name string, prefix ...string) []runner.Command {
	want := &Stub{name: name, prefix: prefix}
	var matched []runner.Command
	for _, c := range f.Calls() {
		if want.matches(c) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Called reports whether any recorded command matches name and prefix
func (f *FakeRunner) Called(name string, prefix ...string) bool {
	return len(f.CallsTo(name, prefix...)) > 0
}

// CommandLines renders recorded calls as "name args..." strings, handy for
// asserting on ordering
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, strings.TrimSpace(c.String()))
	}
	return lines
}
