package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/compositor"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	out, errOut io.Writer
	configPath  string
	cfg         *Config
	logger      *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "gocomp",
		Short:         "Render node-based image compositing jobs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "info", "Logging level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "text", "Log output format: text or json")

	root.AddCommand(a.renderCmd(), a.validateCmd(), a.nodesCmd())
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath, cmd.Flags())
	if err != nil {
		return usageError(err)
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log.Level, cfg.Log.Format, a.errOut)
	compositor.SetLogger(a.logger)
	return nil
}
