package indexpub

import (
	"github.com/arthur-debert/indexpub/pkg/index"
	"github.com/arthur-debert/indexpub/pkg/layout"
	"github.com/arthur-debert/indexpub/pkg/prepare"
	"github.com/arthur-debert/indexpub/pkg/prompt"
	"github.com/arthur-debert/indexpub/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPrepareCmd() *cobra.Command {
	var (
		yes      bool
		noPush   bool
		noPR     bool
		indexDir string
	)

	cmd := &cobra.Command{
		Use:     "prepare <path>...",
		Short:   MsgPrepareShort,
		Long:    MsgPrepareLong,
		Example: MsgPrepareExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if indexDir != "" {
				overrides["index.dir"] = indexDir
			}
			a, err := newApp(cmd, overrides)
			if err != nil {
				return err
			}
			if err := a.cfg.ValidateIndex(); err != nil {
				return err
			}
			renderer, err := a.renderer()
			if err != nil {
				return err
			}

			// Keep structured stdout parseable
			previewOut := a.out
			if a.format.IsStructured() {
				previewOut = cmd.ErrOrStderr()
			}

			cfg := a.cfg
			mgr := a.manager()
			preparer := prepare.New(prepare.Deps{
				Runner:    a.runner,
				Manager:   mgr,
				Resolver:  a.resolver(mgr),
				Hosting:   a.hosting(),
				Layout:    layout.NewOS(cfg.Index.Sentinel),
				Confirmer: prompt.NewConfirmer(yes, false),
				Preview:   ui.Previewer(previewOut, a.format),
			}, prepare.Options{
				Index: index.Options{
					GitBinary: cfg.Git.Binary,
					URL:       cfg.Index.URL,
					Dir:       cfg.Index.Dir,
					Remote:    cfg.Index.Remote,
				},
				Upstream:      cfg.Index.Repo,
				ManifestDir:   cfg.Manager.ManifestDir,
				ManifestExt:   cfg.Manager.ManifestExt,
				Login:         cfg.Hosting.Login,
				NoPush:        noPush,
				NoPullRequest: noPR,
			})

			log.Info().Strs("paths", args).Str("index_dir", cfg.Index.Dir).Msg("Preparing releases")
			result, err := preparer.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVar(&noPush, "no-push", false, MsgFlagNoPush)
	cmd.Flags().BoolVar(&noPR, "no-pr", false, MsgFlagNoPR)
	cmd.Flags().StringVar(&indexDir, "index-dir", "", MsgFlagIndexDir)
	cmd.MarkFlagsMutuallyExclusive("yes", "no-push")
	_ = cmd.MarkFlagDirname("index-dir")

	return cmd
}
