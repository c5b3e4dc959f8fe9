package app

import (
	"fmt"

	"lcdstats/adapters/stats/correction"
	"lcdstats/adapters/stats/effect"
	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/summary"
)

// EngineOptions tune a FamilyEngine
type EngineOptions struct {
	Alpha        float64 // Threshold on corrected p-values
	PFloor       float64 // Floor applied before -log10 in summaries
	IncludeEmpty bool    // Test categories with zero counts in both samples
}

// DefaultEngineOptions returns alpha 0.05, floor 1e-300, empty categories untested
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{Alpha: 0.05, PFloor: correction.DefaultFloor}
}

// FamilyEngine computes and corrects the statistics of one comparison family
type FamilyEngine struct {
	corrector correction.Corrector
	opts      EngineOptions
}

// NewFamilyEngine creates a family engine; a nil corrector means Sidak-Holm
func NewFamilyEngine(corrector correction.Corrector, opts EngineOptions) *FamilyEngine {
	if corrector == nil {
		corrector, _ = correction.New(correction.MethodSidakHolm)
	}
	if opts.Alpha <= 0 {
		opts.Alpha = 0.05
	}
	if opts.PFloor <= 0 {
		opts.PFloor = correction.DefaultFloor
	}
	return &FamilyEngine{corrector: corrector, opts: opts}
}

// Analyze computes every category of the family, then corrects the family's
// raw p-values once. It returns an error wrapping core.ErrUnanalyzable when
// a category stays degenerate after the +1 adjustment, and one wrapping
// core.ErrInvalidCounts on a contract violation.
func (e *FamilyEngine) Analyze(family stats.FamilyInput) (*stats.FamilyResult, error) {
	if family.Key == "" {
		return nil, fmt.Errorf("%w: family key is empty", core.ErrFamilyMismatch)
	}

	categories := make([]stats.CategoryResult, len(family.Records))
	var pvals []float64
	var tested []int

	for i, rec := range family.Records {
		cr, err := e.analyzeCategory(family.Key, rec)
		if err != nil {
			return nil, err
		}
		if e.opts.IncludeEmpty || !rec.Empty() {
			cr.Tested = true
			pvals = append(pvals, cr.Primary.PValue)
			tested = append(tested, i)
		}
		categories[i] = cr
	}

	corrected, err := e.corrector.Correct(pvals)
	if err != nil {
		return nil, fmt.Errorf("family %s: correction failed: %w", family.Key, err)
	}
	for j, idx := range tested {
		categories[idx].CorrectedPValue = stats.Some(corrected[j])
	}
	for i := range categories {
		categories[i].Significance = stats.Classify(categories[i].CorrectedPValue, e.opts.Alpha)
	}

	return &stats.FamilyResult{
		Key:        family.Key,
		Label:      family.Label,
		Categories: categories,
		Tested:     len(tested),
		Correction: e.corrector.Name(),
		Alpha:      e.opts.Alpha,
		Summary:    summary.Summarize(categories, e.opts.PFloor),
	}, nil
}

func (e *FamilyEngine) analyzeCategory(key core.FamilyKey, rec stats.ComparisonRecord) (stats.CategoryResult, error) {
	primary, err := effect.ComputeRecord(rec)
	if err != nil {
		return stats.CategoryResult{}, fmt.Errorf("family %s category %s: %w", key, rec.Category, err)
	}

	cr := stats.CategoryResult{Record: rec, Primary: primary}
	cr.FoldChange, cr.BiasedFoldChange = effect.FoldChange(rec.ObservedCount, rec.ExpectedCount)

	if effect.NeedsBias(primary, rec.ObservedCount, rec.ExpectedCount) {
		biased, err := effect.ComputeBiased(rec.ObservedCount, rec.ObservedTotal, rec.ExpectedCount, rec.ExpectedTotal)
		if err != nil {
			return stats.CategoryResult{}, fmt.Errorf("family %s category %s: %w", key, rec.Category, err)
		}
		if biased.Degenerate {
			return stats.CategoryResult{}, core.NewUnanalyzableError(key, rec.Category)
		}
		cr.Biased = &biased
	}
	return cr, nil
}
