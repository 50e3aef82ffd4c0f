package indexpub

import (
	"fmt"

	"github.com/arthur-debert/indexpub/pkg/config"
	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultConfigContent())
				return err
			}
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			encoder := yaml.NewEncoder(a.out)
			encoder.SetIndent(2)
			if err := encoder.Encode(a.cfg.Map()); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
			}
			return encoder.Close()
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
