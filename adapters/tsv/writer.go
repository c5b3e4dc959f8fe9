package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/errors"
)

// ResultHeader is the column set of the per-category results table
var ResultHeader = []string{
	"Proteome",
	"Domain of Life",
	"LCD Class",
	`# of Proteins with LCDs, Actual Proteome ("Observed")`,
	"# of Proteins with LCDs, Scrambled Proteome",
	"Total Proteins in Proteome",
	"OddsRatio",
	"lnOR",
	"Fold Change (# in actual proteome / # in scrambled proteome)",
	"95% Confidence Interval (lower bound, upper bound)",
	"95% Confidence Interval for Odds Ratio Excludes 1?",
	"p-value",
	"Sidak-Holm Corrected p-value",
	"Biased OddsRatio",
	"Biased lnOR (when necessary)",
	"Biased Fold Change [(# in actual proteome + 1) / (# in scrambled proteome + 1)]",
	"Biased 95% Confidence Interval (lower bound, upper bound)",
	"Biased Raw p-value (when necessary)",
	"Significance",
}

// SummaryHeader is the column set of the per-family summary table
var SummaryHeader = []string{
	"Run",
	"Proteome",
	"Domain of Life",
	"Status",
	"Categories",
	"Tested",
	"Significant",
	"Biased",
	"Median lnOR",
	"lnOR Q1",
	"lnOR Q3",
	"Min lnOR",
	"Max lnOR",
	"Median -log10 Corrected p-value",
	"Correction",
	"Error",
}

// ResultRows renders the per-category rows of every analyzed family
func ResultRows(outcomes []stats.FamilyOutcome) [][]string {
	var rows [][]string
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		for _, c := range o.Result.Categories {
			rows = append(rows, resultRow(o.Result, c))
		}
	}
	return rows
}

func resultRow(f *stats.FamilyResult, c stats.CategoryResult) []string {
	r := c.Record
	p := stats.NotAvailable
	if c.Tested {
		p = formatFloat(c.Primary.PValue)
	}

	biasedOR, biasedLnOR, biasedCI, biasedP := stats.NotAvailable, stats.NotAvailable, stats.NotAvailable, stats.NotAvailable
	if c.Biased != nil {
		biasedOR = c.Biased.OddsRatio.String()
		biasedLnOR = c.Biased.LogOddsRatio.String()
		biasedCI = formatInterval(*c.Biased)
		biasedP = formatFloat(c.Biased.PValue)
	}

	return []string{
		f.Key.String(),
		f.Label,
		r.Category.String(),
		strconv.Itoa(r.ObservedCount),
		strconv.Itoa(r.ExpectedCount),
		strconv.Itoa(r.ObservedTotal),
		c.Primary.OddsRatio.String(),
		c.Primary.LogOddsRatio.String(),
		c.FoldChange.String(),
		formatInterval(c.Primary),
		formatExclusion(c.Primary),
		p,
		c.CorrectedPValue.String(),
		biasedOR,
		biasedLnOR,
		c.BiasedFoldChange.String(),
		biasedCI,
		biasedP,
		c.Significance.String(),
	}
}

// SummaryRows renders one row per family, errors included
func SummaryRows(runID core.RunID, outcomes []stats.FamilyOutcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			reason := "unknown"
			if o.Err != nil {
				reason = o.Err.Error()
			}
			row := []string{runID.String(), o.Key.String(), o.Label, "unanalyzable"}
			for i := len(row); i < len(SummaryHeader)-1; i++ {
				row = append(row, stats.NotAvailable)
			}
			rows = append(rows, append(row, reason))
			continue
		}
		s := o.Result.Summary
		rows = append(rows, []string{
			runID.String(),
			o.Key.String(),
			o.Label,
			"ok",
			strconv.Itoa(s.Categories),
			strconv.Itoa(s.Tested),
			strconv.Itoa(s.Significant),
			strconv.Itoa(s.Biased),
			s.MedianLogOR.String(),
			s.LowerQuartileLOR.String(),
			s.UpperQuartileLOR.String(),
			s.MinLogOR.String(),
			s.MaxLogOR.String(),
			s.MedianNegLog10P.String(),
			o.Result.Correction,
			"",
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatInterval(s stats.StatisticResult) string {
	if !s.HasInterval() {
		return stats.NotAvailable
	}
	return fmt.Sprintf("(%s, %s)", s.CILower.String(), s.CIUpper.String())
}

func formatExclusion(s stats.StatisticResult) string {
	excludes, ok := s.CIExcludesNull()
	switch {
	case !ok:
		return stats.NotAvailable
	case excludes:
		return "1"
	default:
		return "0"
	}
}

// Writer writes one table to a tab-separated destination. It implements
// ports.ResultWriterPort.
type Writer struct {
	out    *csv.Writer
	closer io.Closer
	header []string
	rows   func(core.RunID, []stats.FamilyOutcome) [][]string
}

// NewResultWriter writes the per-category table to w
func NewResultWriter(w io.Writer) *Writer {
	return newWriter(w, nil, ResultHeader, func(_ core.RunID, o []stats.FamilyOutcome) [][]string { return ResultRows(o) })
}

// NewSummaryWriter writes the per-family table to w
func NewSummaryWriter(w io.Writer) *Writer {
	return newWriter(w, nil, SummaryHeader, SummaryRows)
}

// CreateResultWriter creates path and writes the per-category table to it
func CreateResultWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to create %s", path), err)
	}
	w := NewResultWriter(f)
	w.closer = f
	return w, nil
}

// CreateSummaryWriter creates path and writes the per-family table to it
func CreateSummaryWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to create %s", path), err)
	}
	w := NewSummaryWriter(f)
	w.closer = f
	return w, nil
}

func newWriter(w io.Writer, closer io.Closer, header []string, rows func(core.RunID, []stats.FamilyOutcome) [][]string) *Writer {
	out := csv.NewWriter(w)
	out.Comma = '\t'
	return &Writer{out: out, closer: closer, header: header, rows: rows}
}

// WriteOutcomes writes the header and all rows
func (w *Writer) WriteOutcomes(runID core.RunID, outcomes []stats.FamilyOutcome) error {
	if err := w.out.Write(w.header); err != nil {
		return errors.IOError("failed to write header", err)
	}
	if err := w.out.WriteAll(w.rows(runID, outcomes)); err != nil {
		return errors.IOError("failed to write rows", err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file, if any
func (w *Writer) Close() error {
	w.out.Flush()
	if err := w.out.Error(); err != nil {
		return errors.IOError("failed to flush output", err)
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// WriteResults writes the per-category table of outcomes to w
func WriteResults(w io.Writer, outcomes []stats.FamilyOutcome) error {
	rw := NewResultWriter(w)
	if err := rw.WriteOutcomes("", outcomes); err != nil {
		return err
	}
	return rw.Close()
}

// WriteSummary writes the per-family table of outcomes to w
func WriteSummary(w io.Writer, runID core.RunID, outcomes []stats.FamilyOutcome) error {
	sw := NewSummaryWriter(w)
	if err := sw.WriteOutcomes(runID, outcomes); err != nil {
		return err
	}
	return sw.Close()
}
