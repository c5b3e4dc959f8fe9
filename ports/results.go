package ports

import (
	"lcdstats/domain/core"
	"lcdstats/domain/stats"
)

// ResultWriterPort persists the outcomes of one batch run
type ResultWriterPort interface {
	// WriteOutcomes writes every family outcome in batch order
	WriteOutcomes(runID core.RunID, outcomes []stats.FamilyOutcome) error
	// Close flushes and releases the destination
	Close() error
}

// FrequencySourcePort supplies per-family frequency tables
type FrequencySourcePort interface {
	ReadFrequencies() ([]stats.FrequencyTable, error)
}
