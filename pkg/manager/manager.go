// Package manager wraps the package-manager CLI: the show query, the
// publish action in its manifest-only and submitting modes, the status
// query and review promotion.
package manager

import (
	"context"

	"github.com/arthur-debert/indexpub/pkg/runner"
)

// PublishOptions are modifiers forwarded verbatim to the publish action
type PublishOptions struct {
	// ManifestOnly generates the manifest without building or submitting
	ManifestOnly bool
	Force        bool
	SkipBuild    bool
}

// Args renders the publish command line
func (o PublishOptions) Args() []string {
	args := []string{"publish"}
	if o.ManifestOnly {
		args = append(args, "--manifest-only")
	}
	if o.Force {
		args = append(args, "--force")
	}
	if o.SkipBuild {
		args = append(args, "--skip-build")
	}
	return args
}

// Client runs package-manager commands inside package directories
type Client struct {
	runner runner.Runner
	binary string
}

// New creates a Client invoking binary through r
func New(r runner.Runner, binary string) *Client {
	return &Client{runner: r, binary: binary}
}

// Binary returns the configured executable name
func (c *Client) Binary() string {
	return c.binary
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (runner.Result, error) {
	return c.runner.Run(ctx, runner.Command{Dir: dir, Name: c.binary, Args: args})
}

// ShowStructured runs the machine-readable show query and returns its stdout
func (c *Client) ShowStructured(ctx context.Context, dir string) (string, error) {
	result, err := c.run(ctx, dir, "show", "--format", "json")
	return result.Stdout, err
}

// ShowText runs the human-readable show query
func (c *Client) ShowText(ctx context.Context, dir string) (string, error) {
	result, err := c.run(ctx, dir, "show")
	return result.Stdout, err
}

// Publish runs the publish action. The result is returned even on failure
// so the caller can keep the partial output.
func (c *Client) Publish(ctx context.Context, dir string, opts PublishOptions) (runner.Result, error) {
	return c.run(ctx, dir, opts.Args()...)
}

// Status queries every known review request
func (c *Client) Status(ctx context.Context, dir string) (string, error) {
	result, err := c.run(ctx, dir, "publish", "--status")
	return result.Stdout, err
}

// RequestReview promotes review request id to ready-for-review
func (c *Client) RequestReview(ctx context.Context, dir, id string) error {
	_, err := c.run(ctx, dir, "publish", "--request-review="+id)
	return err
}
