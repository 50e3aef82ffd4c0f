package indexpub

import (
	"github.com/arthur-debert/indexpub/pkg/monitor"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status [path]",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			renderer, err := a.renderer()
			if err != nil {
				return err
			}

			mgr := a.manager()
			d, err := a.resolver(mgr).Resolve(cmd.Context(), packagePath(args))
			if err != nil {
				return err
			}
			report, err := monitor.QueryStatus(cmd.Context(), mgr, d)
			if err != nil {
				return err
			}
			return renderer.RenderResult(report)
		},
	}
}
