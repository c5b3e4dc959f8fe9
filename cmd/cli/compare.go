package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"lcdstats/adapters/excel"
	"lcdstats/adapters/stats/correction"
	"lcdstats/adapters/tsv"
	"lcdstats/app"
	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/config"
	"lcdstats/internal/logging"
	"lcdstats/ports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompareCmd(cfg *config.Config) *cobra.Command {
	var (
		out          string
		summaryPath  string
		xlsxPath     string
		policy       string
		method       string
		alpha        float64
		workers      int
		includeEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "compare [observed] [reference]",
		Short: "Compare observed LCD frequencies against a scrambled reference",
		Long: `Run a two-sided Fisher exact test for every LCD class of every proteome,
then apply the Sidak-Holm correction within each proteome.

Reference rows are matched by key: the reference of proteome P is P_SCRAMBLED
(see LCDSTATS_REFERENCE_SUFFIX). With a single file argument, observed and
reference rows are read from the same table. Files ending in .xlsx are read
from their first sheet.

Example: lcdstats compare observed.tsv scrambled.tsv --out results.tsv --xlsx results.xlsx`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.Output.ResultsPath = out
			}
			if flags.Changed("summary") {
				cfg.Output.SummaryPath = summaryPath
			}
			if flags.Changed("xlsx") {
				cfg.Output.WorkbookPath = xlsxPath
			}
			if flags.Changed("policy") {
				cfg.Batch.Policy = config.Policy(strings.ToLower(policy))
			}
			if flags.Changed("method") {
				cfg.Analysis.Correction = method
			}
			if flags.Changed("alpha") {
				cfg.Analysis.Alpha = alpha
			}
			if flags.Changed("workers") {
				cfg.Batch.Workers = workers
			}
			if flags.Changed("include-empty") {
				cfg.Analysis.IncludeEmpty = includeEmpty
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			observedPath, referencePath := args[0], ""
			if len(args) == 2 {
				referencePath = args[1]
			}
			return runCompare(cmd.Context(), cfg, observedPath, referencePath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Per-category results TSV path")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "Per-proteome summary TSV path")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export results and summary to this workbook")
	cmd.Flags().StringVar(&policy, "policy", "", "Unanalyzable proteome policy: skip|abort")
	cmd.Flags().StringVar(&method, "method", "", "Correction method: sidak-holm|sidak|bh|none")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance threshold on corrected p-values")
	cmd.Flags().IntVar(&workers, "workers", 0, "Proteomes analysed concurrently")
	cmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "Test classes absent from both proteomes")

	return cmd
}

// runCompare reads both tables, analyses every paired family and writes the
// configured outputs. It prints a short report to report.
func runCompare(ctx context.Context, cfg *config.Config, observedPath, referencePath string, report io.Writer) error {
	observed, err := readTables(observedPath)
	if err != nil {
		return err
	}
	var reference []stats.FrequencyTable
	if referencePath == "" {
		observed, reference = splitBySuffix(observed, cfg.Batch.ReferenceSuffix)
	} else if reference, err = readTables(referencePath); err != nil {
		return err
	}

	families, skipped, err := app.PairFamilies(observed, reference, cfg.Batch.ReferenceSuffix)
	if err != nil {
		return err
	}

	corrector, err := correction.New(correction.Method(cfg.Analysis.Correction))
	if err != nil {
		return err
	}
	engine := app.NewFamilyEngine(corrector, app.EngineOptions{
		Alpha:        cfg.Analysis.Alpha,
		PFloor:       cfg.Analysis.PFloor,
		IncludeEmpty: cfg.Analysis.IncludeEmpty,
	})
	runner := app.NewBatchRunner(engine, cfg.Batch.Workers, cfg.Batch.Policy, core.NewRunID())

	outcomes, err := runner.Run(ctx, families)
	if err != nil {
		return err
	}

	writers, err := openWriters(cfg.Output)
	if err != nil {
		return err
	}
	for _, w := range writers {
		if werr := w.WriteOutcomes(runner.RunID(), outcomes); werr != nil && err == nil {
			err = werr
		}
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	printReport(report, runner.RunID(), outcomes, skipped, cfg.Output)
	return nil
}

func readTables(path string) ([]stats.FrequencyTable, error) {
	var source ports.FrequencySourcePort
	if excel.IsWorkbook(path) {
		source = excel.NewFrequencyReader(path, "", nil)
	} else {
		source = tsv.NewFrequencyReader(path, nil)
	}
	tables, err := source.ReadFrequencies()
	if err != nil {
		return nil, err
	}
	logging.Info("frequency table loaded", zap.String("path", path), zap.Int("families", len(tables)))
	return tables, nil
}

// splitBySuffix separates reference rows (key ending in suffix) from
// observed rows of a combined table.
func splitBySuffix(tables []stats.FrequencyTable, suffix string) (observed, reference []stats.FrequencyTable) {
	for _, t := range tables {
		if strings.HasSuffix(t.Key.String(), suffix) {
			reference = append(reference, t)
		} else {
			observed = append(observed, t)
		}
	}
	return observed, reference
}

func openWriters(out config.OutputConfig) ([]ports.ResultWriterPort, error) {
	var writers []ports.ResultWriterPort
	closeAll := func() {
		for _, w := range writers {
			_ = w.Close()
		}
	}

	if out.ResultsPath != "" {
		w, err := tsv.CreateResultWriter(out.ResultsPath)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if out.SummaryPath != "" {
		w, err := tsv.CreateSummaryWriter(out.SummaryPath)
		if err != nil {
			closeAll()
			return nil, err
		}
		writers = append(writers, w)
	}
	if out.WorkbookPath != "" {
		writers = append(writers, excel.NewWorkbookWriter(out.WorkbookPath))
	}
	return writers, nil
}

func printReport(w io.Writer, runID core.RunID, outcomes []stats.FamilyOutcome, skipped []core.FamilyKey, out config.OutputConfig) {
	analyzed, failed, significant := 0, 0, 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
			continue
		}
		analyzed++
		significant += o.Result.Summary.Significant
	}

	fmt.Fprintf(w, "Run: %s\n", runID)
	fmt.Fprintf(w, "Proteomes analysed: %d\n", analyzed)
	fmt.Fprintf(w, "Proteomes unanalyzable: %d\n", failed)
	fmt.Fprintf(w, "Proteomes without reference: %d\n", len(skipped))
	fmt.Fprintf(w, "Significant classes: %d\n", significant)
	for _, path := range []string{out.ResultsPath, out.SummaryPath, out.WorkbookPath} {
		if path != "" {
			fmt.Fprintf(w, "Wrote %s\n", path)
		}
	}
}
