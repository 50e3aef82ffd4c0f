// Package testutil provides test doubles and fixtures shared by the
// indexpub packages.
//
// Key components:
//   - FakeRunner: scripted runner.Runner matching on binary and argument
//     prefix, recording every call; PassThrough hands chosen binaries to
//     the real runner
//   - RequireGit, NewGitRepo, NewGitUpstream: real git repositories in
//     temporary directories with an isolated global config, skipped when
//     git is not installed
//
// Fake clocks live in pkg/clock and in-memory filesystems come from
// afero.NewMemMapFs.
package testutil
