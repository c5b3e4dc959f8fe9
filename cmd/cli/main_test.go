package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"lcdstats/adapters/tsv"
	"lcdstats/internal/config"
	"lcdstats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// frequencyRow renders one table row with every LCD class at zero except
// those named in counts.
func frequencyRow(key, label string, total int, counts map[string]int) string {
	cols := []string{key, "organism", label, "taxon", "name", strconv.Itoa(total)}
	for _, class := range tsv.LCDClasses() {
		cols = append(cols, strconv.Itoa(counts[class.String()]))
	}
	return strings.Join(cols, "\t")
}

func frequencyHeader() string {
	cols := []string{"Proteome", "Organism", "Domain", "Taxon", "Name", "Total"}
	for _, class := range tsv.LCDClasses() {
		cols = append(cols, class.String())
	}
	return strings.Join(cols, "\t")
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{Alpha: 0.05, Correction: "sidak-holm", PFloor: 1e-300},
		Batch:    config.BatchConfig{Workers: 2, Policy: config.PolicySkip, ReferenceSuffix: "_SCRAMBLED"},
		Output: config.OutputConfig{
			ResultsPath:  filepath.Join(dir, "results.tsv"),
			SummaryPath:  filepath.Join(dir, "summary.tsv"),
			WorkbookPath: filepath.Join(dir, "results.xlsx"),
		},
	}
}

func readTSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunCompare_CombinedTable(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "freq.tsv",
		frequencyHeader(),
		frequencyRow("P1", "Eukaryota", 1000, map[string]int{"Q": 40, "A": 5}),
		frequencyRow("P1_SCRAMBLED", "Eukaryota", 1000, map[string]int{"Q": 10, "A": 5}),
		frequencyRow("P2", "Bacteria", 500, map[string]int{"Q": 3}),
	)
	cfg := testConfig(dir)

	var report bytes.Buffer
	require.NoError(t, runCompare(context.Background(), cfg, input, "", &report))

	results := readTSV(t, cfg.Output.ResultsPath)
	require.Len(t, results, 1+len(tsv.LCDClasses()))
	assert.Equal(t, tsv.ResultHeader, results[0])

	byClass := map[string][]string{}
	for _, row := range results[1:] {
		byClass[row[2]] = row
	}
	assert.Equal(t, "significant", byClass["Q"][18])
	assert.Equal(t, "not_significant", byClass["A"][18])
	assert.Equal(t, "masked", byClass["N"][18])

	summary := readTSV(t, cfg.Output.SummaryPath)
	require.Len(t, summary, 2)
	assert.Equal(t, "P1", summary[1][1])
	assert.Equal(t, "2", summary[1][5], "two classes tested")

	book, err := excelize.OpenFile(cfg.Output.WorkbookPath)
	require.NoError(t, err)
	defer book.Close()
	sheetRows, err := book.GetRows("Results")
	require.NoError(t, err)
	assert.Len(t, sheetRows, len(results))

	assert.Contains(t, report.String(), "Proteomes analysed: 1")
	assert.Contains(t, report.String(), "Proteomes without reference: 1")
	assert.Contains(t, report.String(), "Significant classes: 1")
}

func TestRunCompare_SeparateTables(t *testing.T) {
	dir := t.TempDir()
	observed := writeFile(t, dir, "obs.tsv",
		frequencyHeader(),
		frequencyRow("P1", "Archaea", 800, map[string]int{"S": 12}),
	)
	reference := writeFile(t, dir, "ref.tsv",
		frequencyHeader(),
		frequencyRow("P1_SCRAMBLED", "Archaea", 800, map[string]int{"S": 11}),
	)
	cfg := testConfig(dir)
	cfg.Output.SummaryPath = ""
	cfg.Output.WorkbookPath = ""

	var report bytes.Buffer
	require.NoError(t, runCompare(context.Background(), cfg, observed, reference, &report))

	results := readTSV(t, cfg.Output.ResultsPath)
	require.Len(t, results, 1+len(tsv.LCDClasses()))
	_, err := os.Stat(filepath.Join(dir, "summary.tsv"))
	assert.True(t, os.IsNotExist(err))
	assert.NotContains(t, report.String(), "summary.tsv")
}

func TestRunCompare_UnanalyzableAbort(t *testing.T) {
	dir := t.TempDir()
	// Q is present in every observed protein and absent from the reference,
	// so the table stays degenerate after the +1 adjustment.
	input := writeFile(t, dir, "freq.tsv",
		frequencyHeader(),
		frequencyRow("P1", "Eukaryota", 10, map[string]int{"Q": 10}),
		frequencyRow("P1_SCRAMBLED", "Eukaryota", 10, map[string]int{}),
	)

	cfg := testConfig(dir)
	cfg.Batch.Policy = config.PolicyAbort
	err := runCompare(context.Background(), cfg, input, "", &bytes.Buffer{})
	require.Error(t, err)

	cfg = testConfig(t.TempDir())
	var report bytes.Buffer
	require.NoError(t, runCompare(context.Background(), cfg, input, "", &report))
	assert.Contains(t, report.String(), "Proteomes unanalyzable: 1")
	summary := readTSV(t, cfg.Output.SummaryPath)
	require.Len(t, summary, 2)
	assert.Equal(t, "unanalyzable", summary[1][3])
}

func TestRunCompare_MissingInput(t *testing.T) {
	cfg := testConfig(t.TempDir())
	err := runCompare(context.Background(), cfg, "/nonexistent/freq.tsv", "", &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
}

func TestRunCorrect(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("# family P1\n0.01\n0.04\n\n0.03\n")
	require.NoError(t, runCorrect(in, &out, "sidak-holm"))

	lines := strings.Fields(out.String())
	require.Len(t, lines, 3)
	want := []float64{1 - 0.99*0.99*0.99, 1 - 0.97*0.97, 1 - 0.97*0.97}
	for i, line := range lines {
		got, err := strconv.ParseFloat(line, 64)
		require.NoError(t, err)
		assert.InDelta(t, want[i], got, 1e-12)
	}
}

func TestRunCorrect_Errors(t *testing.T) {
	err := runCorrect(strings.NewReader("0.5\nabc\n"), &bytes.Buffer{}, "sidak-holm")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = runCorrect(strings.NewReader("0.5\n"), &bytes.Buffer{}, "bonferroni")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = runCorrect(strings.NewReader("1.5\n"), &bytes.Buffer{}, "sidak-holm")
	assert.Error(t, err)
}

func TestRootCmd_Correct(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LCDSTATS_LOG_LEVEL", "error")
	path := writeFile(t, dir, "p.txt", "0.2", "0.2")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"correct", path, "--method", "none"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "0.2\n0.2\n", out.String())
}

func TestRootCmd_InvalidFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "freq.tsv", frequencyHeader())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"compare", input, "--alpha", "2"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestSplitBySuffix(t *testing.T) {
	tables, err := tsv.ReadFrequencies(strings.NewReader(
		"h\nP1\to\tE\tt\tn\t10\t1\nP1_SCRAMBLED\to\tE\tt\tn\t10\t2\n"), tsv.LCDClasses()[:1])
	require.NoError(t, err)
	observed, reference := splitBySuffix(tables, "_SCRAMBLED")
	require.Len(t, observed, 1)
	require.Len(t, reference, 1)
	assert.Equal(t, "P1_SCRAMBLED", reference[0].Key.String())
}
