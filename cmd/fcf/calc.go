package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fcf_analysis/pkg/app"
	"fcf_analysis/pkg/core/export"
	"fcf_analysis/pkg/core/pipeline"

	"github.com/spf13/cobra"
)

type calcCmd struct {
	env *env

	csvPath    string
	xlsxPath   string
	reportPath string
	save       bool
	quote      bool
}

func newCalcCmd(e *env) *cobra.Command {
	c := &calcCmd{env: e}
	cmd := &cobra.Command{
		Use:   "calc <company-dir>",
		Short: "Compute FCFF, FCFE and LFCF for one company folder",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	cmd.Flags().StringVar(&c.csvPath, "csv", "", "Write the FCF table as CSV (- for stdout)")
	cmd.Flags().StringVar(&c.xlsxPath, "xlsx", "", "Write FCF, metrics and validation sheets to a workbook")
	cmd.Flags().StringVar(&c.reportPath, "report", "", "Write the run report (.md or .html)")
	cmd.Flags().BoolVar(&c.save, "save", false, "Store the result")
	cmd.Flags().BoolVar(&c.quote, "quote", false, "Fetch the current market price")
	return cmd
}

func (c *calcCmd) run(cmd *cobra.Command, args []string) error {
	a, err := app.New(cmd.Context(), c.env.cfg, c.env.logger, app.Options{Quotes: c.quote, Store: c.save})
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
	if err := writeOutputs(cmd, res, c.csvPath, c.xlsxPath, c.reportPath); err != nil {
		return err
	}
	return runErr
}

// writeOutputs writes each requested export. Failures are joined so one bad
// path does not hide the others.
func writeOutputs(cmd *cobra.Command, res *pipeline.Result, csvPath, xlsxPath, reportPath string) error {
	var errs []error
	data := res.ExportData()

	switch csvPath {
	case "":
	case "-":
		errs = append(errs, export.WriteCSV(cmd.OutOrStdout(), data))
	default:
		errs = append(errs, export.WriteCSVFile(csvPath, data))
	}
	if xlsxPath != "" {
		errs = append(errs, export.WriteWorkbook(xlsxPath, data))
	}
	if reportPath != "" {
		errs = append(errs, writeReport(reportPath, res))
	}
	return errors.Join(errs...)
}

func writeReport(path string, res *pipeline.Result) error {
	body := res.Run.Markdown()
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".html" || ext == ".htm" {
		html, err := res.Run.HTML()
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		body = html
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
