package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lcdstats/adapters/tsv"
	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/errors"
	"lcdstats/internal/logging"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DefaultSheet is read when no sheet name is given
const DefaultSheet = "Sheet1"

// FrequencyReader reads a frequency table from a workbook sheet laid out
// like the tab-separated table: header row, then one row per family.
type FrequencyReader struct {
	path       string
	sheet      string
	categories []core.CategoryKey
}

// NewFrequencyReader reads sheet of path; empty sheet means Sheet1 and nil
// categories means the 400 LCD classes.
func NewFrequencyReader(path, sheet string, categories []core.CategoryKey) *FrequencyReader {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if categories == nil {
		categories = tsv.LCDClasses()
	}
	return &FrequencyReader{path: path, sheet: sheet, categories: categories}
}

// IsWorkbook reports whether path has a spreadsheet extension
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// ReadFrequencies opens the workbook and parses the sheet
func (r *FrequencyReader) ReadFrequencies() ([]stats.FrequencyTable, error) {
	if _, err := os.Stat(r.path); err != nil {
		return nil, errors.IOError(fmt.Sprintf("workbook not found: %s", r.path), err)
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to open workbook %s", r.path), err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to read sheet %s", r.sheet), err)
	}
	if len(rows) < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %s has no header row", r.sheet))
	}
	logging.Debug("workbook sheet read",
		zap.String("path", r.path),
		zap.String("sheet", r.sheet),
		zap.Int("rows", len(rows)))

	tables, err := tsv.ParseFrequencyRows(rows[1:], r.categories, 2)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", r.path)
	}
	return tables, nil
}
