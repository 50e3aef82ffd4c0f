package indexpub

import (
	"io"
	"os"

	"github.com/arthur-debert/indexpub/pkg/config"
	"github.com/arthur-debert/indexpub/pkg/descriptor"
	"github.com/arthur-debert/indexpub/pkg/hosting"
	"github.com/arthur-debert/indexpub/pkg/manager"
	"github.com/arthur-debert/indexpub/pkg/runner"
	"github.com/arthur-debert/indexpub/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newRunner builds the process runner every collaborator shares.
// Tests replace it with a scripted runner.
var newRunner = func() runner.Runner {
	return runner.NewExecRunner()
}

// app is what every workflow command builds from flags and configuration
type app struct {
	cfg    *config.Config
	runner runner.Runner
	format ui.Format
	out    io.Writer
}

// newApp loads the configuration, applying overrides from command flags
func newApp(cmd *cobra.Command, overrides map[string]interface{}) (*app, error) {
	configFile, _ := cmd.Root().PersistentFlags().GetString("config")
	formatName, _ := cmd.Root().PersistentFlags().GetString("format")

	format, err := ui.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	file, _ := out.(*os.File)
	a := &app{
		cfg:    cfg,
		runner: newRunner(),
		format: format.Resolve(file),
		out:    out,
	}
	log.Debug().
		Str("index_repo", cfg.Index.Repo).
		Str("index_dir", cfg.Index.Dir).
		Str("format", a.format.String()).
		Msg("Configuration loaded")
	return a, nil
}

func (a *app) renderer() (ui.Renderer, error) {
	return ui.NewRenderer(a.format, a.out)
}

func (a *app) manager() *manager.Client {
	return manager.New(a.runner, a.cfg.Manager.Binary)
}

func (a *app) resolver(m *manager.Client) *descriptor.Resolver {
	return descriptor.NewResolver(m, descriptor.Fields{
		Name:    a.cfg.Manager.NameField,
		Version: a.cfg.Manager.VersionField,
	})
}

func (a *app) hosting() *hosting.Client {
	return hosting.New(a.runner, a.cfg.Hosting.Binary, a.cfg.Hosting.Host)
}

// packagePath returns the single optional path argument
func packagePath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// RenderError prints err to w in the format selected on rootCmd
func RenderError(rootCmd *cobra.Command, w io.Writer, err error) {
	formatName, _ := rootCmd.PersistentFlags().GetString("format")
	format, parseErr := ui.ParseFormat(formatName)
	if parseErr != nil {
		format = ui.FormatAuto
	}
	renderer, rendererErr := ui.NewRenderer(format, w)
	if rendererErr == nil && renderer.RenderError(err) == nil {
		return
	}
	_, _ = io.WriteString(w, "Error: "+err.Error()+"\n")
}
