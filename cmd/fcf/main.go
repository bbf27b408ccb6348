// Command fcf computes free cash flow series, quality reports and valuations
// from company statement exports.
package main

import (
	"fmt"
	"os"

	"fcf_analysis/pkg/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is filled by the root command before any subcommand runs.
type env struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger zerolog.Logger
}

func (e *env) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.verbose {
		cfg.LogLevel = "debug"
	}
	e.cfg = cfg
	e.logger = config.NewLogger(cmd.ErrOrStderr(), cfg, true)
	return nil
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:               "fcf",
		Short:             "Free cash flow analysis from financial statement workbooks",
		SilenceUsage:      true,
		PersistentPreRunE: e.load,
	}
	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newCalcCmd(e), newValueCmd(e), newServeCmd(e))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
