package indexpub

import (
	"os"
	"time"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/git"
	"github.com/arthur-debert/indexpub/pkg/manager"
	"github.com/arthur-debert/indexpub/pkg/monitor"
	"github.com/arthur-debert/indexpub/pkg/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPublishCmd() *cobra.Command {
	var (
		force          bool
		skipBuild      bool
		backoff        time.Duration
		timeout        time.Duration
		remote         string
		nonInteractive bool
	)

	cmd := &cobra.Command{
		Use:     "publish [path]",
		Short:   MsgPublishShort,
		Long:    MsgPublishLong,
		Example: MsgPublishExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("backoff") {
				overrides["monitor.backoff"] = backoff.String()
			}
			if cmd.Flags().Changed("timeout") {
				overrides["monitor.timeout"] = timeout.String()
			}
			a, err := newApp(cmd, overrides)
			if err != nil {
				return err
			}
			cfg := a.cfg
			ctx := cmd.Context()

			if os.Getenv(cfg.Hosting.TokenEnv) == "" {
				return errors.Newf(errors.ErrCollaboratorUnavailable, MsgErrTokenUnset, cfg.Hosting.TokenEnv, cfg.Hosting.Host)
			}
			login := cfg.Hosting.Login
			if login == "" {
				if login, err = a.hosting().CurrentUser(ctx); err != nil {
					return err
				}
			}

			renderer, err := a.renderer()
			if err != nil {
				return err
			}

			mgr := a.manager()
			d, err := a.resolver(mgr).Resolve(ctx, packagePath(args))
			if err != nil {
				return err
			}
			log.Info().
				Str("package", d.Name).
				Str("version", d.Version).
				Str("login", login).
				Msg("Publishing")

			m := monitor.New(monitor.Deps{
				Manager: mgr,
				Repo:    git.NewRepository(a.runner, cfg.Git.Binary, d.SourcePath),
				Remotes: prompt.NewRemoteChooser(remote, nonInteractive),
			}, monitor.Options{
				Publish: manager.PublishOptions{
					Force:     force,
					SkipBuild: skipBuild,
				},
				Backoff:    cfg.Monitor.Backoff,
				Timeout:    cfg.Monitor.Timeout,
				SignTags:   cfg.Git.SignTags,
				TagMessage: cfg.TagMessageFor,
				LogDir:     cfg.Monitor.LogDir,
			})

			result, runErr := m.Run(ctx, d)
			if err := renderer.RenderResult(result); err != nil && runErr == nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, MsgFlagSkipBuild)
	cmd.Flags().DurationVar(&backoff, "backoff", monitor.DefaultBackoff, MsgFlagBackoff)
	cmd.Flags().DurationVar(&timeout, "timeout", monitor.DefaultTimeout, MsgFlagTimeout)
	cmd.Flags().StringVar(&remote, "remote", "", MsgFlagRemote)
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, MsgFlagNonInteractive)

	return cmd
}
