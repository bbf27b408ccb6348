package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fcf_analysis/pkg/config"
	"fcf_analysis/pkg/core/excel/exceltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvDatabaseURL, config.EnvDataRoot, config.EnvMarketBaseURL, config.EnvLogLevel, config.EnvAddr} {
		t.Setenv(k, "")
	}
}

// writeCompany creates a folder with a cash flow statement only: LFCF is the
// one type that can be computed.
func writeCompany(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Widget Co (WDGT)")
	exceltest.WriteWorkbook(t, filepath.Join(dir, "FY", "Cash Flow.xlsx"), [][]any{
		{"Widget Co", "USD in millions", "", "2023-12-31", "2024-12-31"},
		exceltest.StatementRow("Cash from Operations", 100, 200),
		exceltest.StatementRow("Capital Expenditure", -10, -30),
	})
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCalc_PrintsAndExports(t *testing.T) {
	clearEnv(t)
	dir := writeCompany(t)
	out := t.TempDir()
	reportPath := filepath.Join(out, "run.html")
	xlsxPath := filepath.Join(out, "fcf.xlsx")

	stdout, _, err := execute(t, "calc", dir, "--csv", "-", "--report", reportPath, "--xlsx", xlsxPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Widget Co (WDGT)")
	assert.Contains(t, stdout, "170.00")
	assert.Contains(t, stdout, "Data quality score")
	assert.Contains(t, stdout, "period,fcff,fcfe,lfcf")
	assert.Contains(t, stdout, "2024-12-31,,,170.00")

	html, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Run report: Widget Co (WDGT)</h1>")

	_, err = os.Stat(xlsxPath)
	assert.NoError(t, err)
}

func TestCalc_SaveWritesResultFile(t *testing.T) {
	clearEnv(t)
	dir := writeCompany(t)
	resultsDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "fcf.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  results_dir: "+resultsDir+"\n"), 0o644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "calc", dir, "--save"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(resultsDir, "WDGT.json"))
	assert.NoError(t, err)
}

func TestCalc_MissingFolder(t *testing.T) {
	clearEnv(t)
	_, _, err := execute(t, "calc", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open company folder")
}

func TestValue_RunsModels(t *testing.T) {
	clearEnv(t)
	dir := writeCompany(t)
	assumptions := filepath.Join(t.TempDir(), "assumptions.hjson")
	require.NoError(t, os.WriteFile(assumptions, []byte(`{
		# per-share inputs
		shares_outstanding: 10
		growth_rate: 0.03
	}`), 0o644))

	stdout, _, err := execute(t, "value", dir, "--assumptions", assumptions, "--no-quote")
	require.NoError(t, err)

	assert.Contains(t, stdout, "value/share")
	assert.Contains(t, stdout, "DCF @")
}

func TestValue_RequiresAssumptions(t *testing.T) {
	clearEnv(t)
	_, _, err := execute(t, "value", writeCompany(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "assumptions" not set`)
}
