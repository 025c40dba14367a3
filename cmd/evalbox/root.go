package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evalbox/evalbox/pkg/config"
	"github.com/evalbox/evalbox/pkg/logger"
)

// version is set by -ldflags "-X main.version=..."
var version = "dev"

type globalOptions struct {
	configPath string
	logLevel   string

	conf config.Config
	log  *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:   "evalbox",
		Short: "Evaluate untrusted code under address space and process limits",
		Long: `evalbox evaluates untrusted JavaScript or Lua in a fresh, single-use
sandbox process. The sandbox reads the request on stdin, lowers its own
address space and process count ceilings (soft == hard) and only then
runs the code. evalbox kills it after the timeout and keeps a bounded
amount of its output.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newInitCmd())
	return root
}

func (g *globalOptions) load() error {
	conf, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		conf.Log.Level = g.logLevel
	}
	log, err := logger.New(conf.Log)
	if err != nil {
		return err
	}
	g.conf, g.log = conf, log
	return nil
}
