// pkg/testutil/git.go
// DEPENDENCIES: git binary
// PURPOSE: Real git repositories in temp directories for adapter and workflow tests

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireGit skips the test when git is unavailable and isolates git from
// the user's global configuration
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	globalConfig := filepath.Join(t.TempDir(), "gitconfig")
	WriteFile(t, globalConfig, "[init]\n\tdefaultBranch = main\n[commit]\n\tgpgsign = false\n[tag]\n\tgpgsign = false\n")
	t.Setenv("GIT_CONFIG_GLOBAL", globalConfig)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test.local")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test.local")
}

// RunGit runs git in dir and fails the test on error
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s in %s: %v\n%s", strings.Join(args, " "), dir, err, out)
	}
	return string(out)
}

// WriteFile writes content at path, creating parents
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NewGitRepo initialises a working tree on branch main holding files and
// one commit
func NewGitRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), "work")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	RunGit(t, dir, "init", "-b", "main")
	if len(files) == 0 {
		files = map[string]string{"README": "test\n"}
	}
	for rel, content := range files {
		WriteFile(t, filepath.Join(dir, rel), content)
	}
	RunGit(t, dir, "add", "-A")
	RunGit(t, dir, "commit", "-m", "initial")
	return dir
}

// NewGitUpstream creates a bare repository seeded with files on main and
// returns its path, usable as a clone URL
func NewGitUpstream(t *testing.T, files map[string]string) string {
	t.Helper()
	work := NewGitRepo(t, files)

	bare := filepath.Join(t.TempDir(), "upstream.git")
	RunGit(t, filepath.Dir(bare), "clone", "--bare", work, bare)
	RunGit(t, bare, "symbolic-ref", "HEAD", "refs/heads/main")
	return bare
}

// PushToUpstream adds a commit to the bare upstream's main branch from a
// scratch clone
func PushToUpstream(t *testing.T, bare, rel, content string) {
	t.Helper()
	scratch := filepath.Join(t.TempDir(), "scratch")
	RunGit(t, filepath.Dir(scratch), "clone", bare, scratch)
	WriteFile(t, filepath.Join(scratch, rel), content)
	RunGit(t, scratch, "add", "-A")
	RunGit(t, scratch, "commit", "-m", "upstream change "+rel)
	RunGit(t, scratch, "push", "origin", "main")
}
