package excel

import (
	"fmt"

	"lcdstats/adapters/tsv"
	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

// WorkbookWriter exports a batch as a workbook with a Results sheet and a
// Summary sheet. It implements ports.ResultWriterPort; the file is written on
// WriteOutcomes.
type WorkbookWriter struct {
	path string
}

// NewWorkbookWriter writes to path
func NewWorkbookWriter(path string) *WorkbookWriter {
	return &WorkbookWriter{path: path}
}

// WriteOutcomes builds both sheets and saves the workbook
func (w *WorkbookWriter) WriteOutcomes(runID core.RunID, outcomes []stats.FamilyOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return errors.IOError("failed to rename default sheet", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.IOError("failed to add summary sheet", err)
	}

	if err := writeSheet(f, ResultsSheet, tsv.ResultHeader, tsv.ResultRows(outcomes)); err != nil {
		return err
	}
	if err := writeSheet(f, SummarySheet, tsv.SummaryHeader, tsv.SummaryRows(runID, outcomes)); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return errors.IOError(fmt.Sprintf("failed to save workbook %s", w.path), err)
	}
	return nil
}

// Close is a no-op; the workbook is saved by WriteOutcomes
func (w *WorkbookWriter) Close() error {
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.IOError("invalid cell coordinates", err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return errors.IOError(fmt.Sprintf("failed to write row %d of %s", rowNum, sheet), err)
	}
	return nil
}

// WriteWorkbook saves outcomes to a workbook at path
func WriteWorkbook(path string, runID core.RunID, outcomes []stats.FamilyOutcome) error {
	return NewWorkbookWriter(path).WriteOutcomes(runID, outcomes)
}
