// Package tsv reads frequency tables and writes result tables as
// tab-separated text.
package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/errors"
)

// Column positions in a frequency table row
const (
	colFamily   = 0
	colLabel    = 2
	colTotal    = 5
	firstCount  = 6
	headerLines = 1
)

// FrequencyReader reads a frequency table: one header line, then one row
// per family with the key, a label, the total and one count per category.
type FrequencyReader struct {
	path       string
	categories []core.CategoryKey
}

// NewFrequencyReader reads path with the given category columns; nil
// categories means the 400 LCD classes.
func NewFrequencyReader(path string, categories []core.CategoryKey) *FrequencyReader {
	if categories == nil {
		categories = LCDClasses()
	}
	return &FrequencyReader{path: path, categories: categories}
}

// ReadFrequencies opens and parses the file
func (r *FrequencyReader) ReadFrequencies() ([]stats.FrequencyTable, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to open frequency table %s", r.path), err)
	}
	defer file.Close()

	tables, err := ReadFrequencies(file, r.categories)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", r.path)
	}
	return tables, nil
}

// ReadFrequencies parses a tab-separated frequency table from in
func ReadFrequencies(in io.Reader, categories []core.CategoryKey) ([]stats.FrequencyTable, error) {
	reader := csv.NewReader(in)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.IOError("failed to read tab-separated input", err)
	}
	if len(rows) < headerLines {
		return nil, errors.InvalidInput("frequency table has no header line")
	}
	return ParseFrequencyRows(rows[headerLines:], categories, headerLines+1)
}

// ParseFrequencyRows converts data rows (header already removed) into
// tables. firstLine is the 1-based line number of rows[0] for messages.
func ParseFrequencyRows(rows [][]string, categories []core.CategoryKey, firstLine int) ([]stats.FrequencyTable, error) {
	want := firstCount + len(categories)
	seen := make(map[core.FamilyKey]int, len(rows))
	tables := make([]stats.FrequencyTable, 0, len(rows))

	for i, row := range rows {
		line := firstLine + i
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) != want {
			return nil, errors.InvalidInput(fmt.Sprintf("line %d: expected %d columns, got %d", line, want, len(row)))
		}

		key, err := core.ParseFamilyKey(strings.TrimSpace(row[colFamily]))
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("line %d: %v", line, err))
		}
		if prev, dup := seen[key]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("line %d: family %s already defined on line %d", line, key, prev))
		}
		seen[key] = line

		total, err := parseCount(row[colTotal])
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("line %d: total: %v", line, err))
		}

		counts := make([]int, len(categories))
		for j := range categories {
			counts[j], err = parseCount(row[firstCount+j])
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("line %d: category %s: %v", line, categories[j], err))
			}
		}

		tables = append(tables, stats.FrequencyTable{
			Key:        key,
			Label:      strings.TrimSpace(row[colLabel]),
			Total:      total,
			Categories: categories,
			Counts:     counts,
		})
	}
	return tables, nil
}

func parseCount(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}
