package main

import (
	"fcf_analysis/pkg/app"
	"fcf_analysis/pkg/core/valuation"

	"github.com/spf13/cobra"
)

type valueCmd struct {
	env *env

	assumptionsPath string
	noQuote         bool
	save            bool
}

func newValueCmd(e *env) *cobra.Command {
	v := &valueCmd{env: e}
	cmd := &cobra.Command{
		Use:   "value <company-dir>",
		Short: "Run DCF, DDM and P/B valuations on top of the FCF analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  v.run,
	}
	cmd.Flags().StringVar(&v.assumptionsPath, "assumptions", "", "Valuation assumptions file (JSON or Hjson)")
	cmd.Flags().BoolVar(&v.noQuote, "no-quote", false, "Skip the market price lookup")
	cmd.Flags().BoolVar(&v.save, "save", false, "Store the result")
	_ = cmd.MarkFlagRequired("assumptions")
	return cmd
}

func (v *valueCmd) run(cmd *cobra.Command, args []string) error {
	assumptions, err := valuation.LoadAssumptions(v.assumptionsPath)
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), v.env.cfg, v.env.logger, app.Options{
		Quotes:      !v.noQuote,
		Store:       v.save,
		Assumptions: &assumptions,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	res, runErr := a.Analyzer.Run(cmd.Context(), args[0])
	if res == nil {
		return runErr
	}
	out := cmd.OutOrStdout()
	printResult(out, res)
	printValuations(out, res)
	return runErr
}
