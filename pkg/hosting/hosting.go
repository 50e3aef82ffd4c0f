// Package hosting wraps the code-hosting CLI: the authenticated user,
// repository lookups, forks and pull requests.
package hosting

import (
	"context"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/jsonfield"
	"github.com/arthur-debert/indexpub/pkg/runner"
)

// PullRequest describes one pull request to open against an upstream repo
type PullRequest struct {
	// Repo is the upstream owner/name the request targets
	Repo  string
	Head  string
	Base  string
	Title string
	Body  string
}

// Client runs hosting CLI commands
type Client struct {
	runner runner.Runner
	binary string
	host   string
}

// New creates a Client for binary talking to host
func New(r runner.Runner, binary, host string) *Client {
	if binary == "" {
		binary = "gh"
	}
	return &Client{runner: r, binary: binary, host: host}
}

func (c *Client) run(ctx context.Context, args ...string) (runner.Result, error) {
	cmd := runner.Command{Name: c.binary, Args: args}
	if c.host != "" && c.host != "github.com" {
		cmd.Env = []string{"GH_HOST=" + c.host}
	}
	return c.runner.Run(ctx, cmd)
}

// CurrentUser returns the login of the authenticated user
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "api", "user")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCollaboratorUnavailable, "could not determine the authenticated hosting user")
	}
	login, err := jsonfield.Extract([]byte(result.Stdout), "login")
	if err != nil || login == "" {
		return "", errors.New(errors.ErrCollaboratorUnavailable, "hosting user lookup returned no login").
			WithDetail("output", strings.TrimSpace(result.Stdout))
	}
	return login, nil
}

// RepoExists reports whether owner/name exists. Any lookup failure is
// treated as absence.
func (c *Client) RepoExists(ctx context.Context, repo string) bool {
	_, err := c.run(ctx, "repo", "view", repo, "--json", "name")
	return err == nil
}

// Fork creates a fork of upstream under the authenticated user without
// cloning it
func (c *Client) Fork(ctx context.Context, upstream string) error {
	_, err := c.run(ctx, "repo", "fork", upstream, "--clone=false")
	return err
}

// CreatePullRequest opens pr and returns its URL
func (c *Client) CreatePullRequest(ctx context.Context, pr PullRequest) (string, error) {
	args := []string{"pr", "create",
		"--repo", pr.Repo,
		"--head", pr.Head,
		"--title", pr.Title,
		"--body", pr.Body,
	}
	if pr.Base != "" {
		args = append(args, "--base", pr.Base)
	}
	result, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return lastURL(result.Stdout), nil
}

// RepoURL returns the clone URL of owner/name on the configured host
func (c *Client) RepoURL(repo string) string {
	host := c.host
	if host == "" {
		host = "github.com"
	}
	return "https://" + host + "/" + repo + ".git"
}

func lastURL(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); strings.HasPrefix(line, "http") {
			return line
		}
	}
	return strings.TrimSpace(out)
}
