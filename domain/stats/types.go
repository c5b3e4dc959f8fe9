package stats

import (
	"lcdstats/domain/core"
)

// ============================================================================
// INPUTS
// ============================================================================

// ComparisonRecord holds the four counts of one category in one family.
// INVARIANTS:
// - 0 <= ObservedCount <= ObservedTotal, ObservedTotal > 0
// - 0 <= ExpectedCount <= ExpectedTotal, ExpectedTotal > 0
type ComparisonRecord struct {
	Category      core.CategoryKey `json:"category"`
	ObservedCount int              `json:"observed_count"` // Count in the subject sample
	ObservedTotal int              `json:"observed_total"` // Items in the subject sample
	ExpectedCount int              `json:"expected_count"` // Count in the reference sample
	ExpectedTotal int              `json:"expected_total"` // Items in the reference sample
}

// Validate checks the count invariants
func (r ComparisonRecord) Validate() error {
	return ValidateCounts(r.ObservedCount, r.ObservedTotal, r.ExpectedCount, r.ExpectedTotal)
}

// Adjusted returns the record with all four counts incremented by one
func (r ComparisonRecord) Adjusted() ComparisonRecord {
	return ComparisonRecord{
		Category:      r.Category,
		ObservedCount: r.ObservedCount + 1,
		ObservedTotal: r.ObservedTotal + 1,
		ExpectedCount: r.ExpectedCount + 1,
		ExpectedTotal: r.ExpectedTotal + 1,
	}
}

// Empty reports whether neither sample contains the category
func (r ComparisonRecord) Empty() bool {
	return r.ObservedCount == 0 && r.ExpectedCount == 0
}

// ValidateCounts checks 0 <= count <= total and total > 0 for both samples
func ValidateCounts(observedCount, observedTotal, expectedCount, expectedTotal int) error {
	checks := []struct {
		field        string
		count, total int
	}{
		{"observed", observedCount, observedTotal},
		{"expected", expectedCount, expectedTotal},
	}
	for _, c := range checks {
		switch {
		case c.total <= 0:
			return core.NewCountError(c.field+"_total", "must be positive")
		case c.count < 0:
			return core.NewCountError(c.field+"_count", "must be non-negative")
		case c.count > c.total:
			return core.NewCountError(c.field+"_count", "exceeds "+c.field+"_total")
		}
	}
	return nil
}

// IsDegenerate reports whether any count is zero or equals its total
func IsDegenerate(observedCount, observedTotal, expectedCount, expectedTotal int) bool {
	return observedCount == 0 || expectedCount == 0 ||
		observedCount == observedTotal || expectedCount == expectedTotal
}

// ============================================================================
// DERIVED STATISTICS
// ============================================================================

// StatisticResult is the outcome of one Fisher test plus effect size.
// OddsRatio, LogOddsRatio and the CI bounds are undefined for degenerate
// tables; RawOddsRatio keeps the test's sample odds ratio when it is finite.
// PValue is always defined and may be 0.0 on underflow.
type StatisticResult struct {
	OddsRatio    Optional `json:"odds_ratio"`
	RawOddsRatio Optional `json:"raw_odds_ratio"` // AD/BC, may be 0 for degenerate tables
	LogOddsRatio Optional `json:"log_odds_ratio"`
	CILower      Optional `json:"ci_lower"` // 95% Wald bound, log scale
	CIUpper      Optional `json:"ci_upper"` // 95% Wald bound, log scale
	PValue       float64  `json:"p_value"`  // Two-sided Fisher exact
	IsBiased     bool     `json:"is_biased"`
	Degenerate   bool     `json:"degenerate"`
}

// HasInterval reports whether both CI bounds are defined
func (s StatisticResult) HasInterval() bool {
	return s.CILower.Valid() && s.CIUpper.Valid()
}

// CIExcludesNull reports whether the log-scale interval excludes 0 (ratio 1).
// ok is false when the interval is undefined.
func (s StatisticResult) CIExcludesNull() (excludes bool, ok bool) {
	lo, okLo := s.CILower.Get()
	hi, okHi := s.CIUpper.Get()
	if !okLo || !okHi {
		return false, false
	}
	return !(lo <= 0 && 0 <= hi), true
}

// Significance is the label encoding used in significance tables
type Significance int

const (
	SignificanceMasked Significance = 1 // No corrected p-value
	NotSignificant     Significance = 2
	Significant        Significance = 3
)

func (s Significance) String() string {
	switch s {
	case Significant:
		return "significant"
	case NotSignificant:
		return "not_significant"
	default:
		return "masked"
	}
}

// Classify labels a corrected p-value against alpha
func Classify(corrected Optional, alpha float64) Significance {
	p, ok := corrected.Get()
	if !ok {
		return SignificanceMasked
	}
	if p < alpha {
		return Significant
	}
	return NotSignificant
}

// CategoryResult carries every statistic reported for one category
type CategoryResult struct {
	Record           ComparisonRecord `json:"record"`
	Primary          StatisticResult  `json:"primary"`
	Biased           *StatisticResult `json:"biased,omitempty"` // Set when the +1 variant was required
	FoldChange       Optional         `json:"fold_change"`
	BiasedFoldChange Optional         `json:"biased_fold_change"`
	Tested           bool             `json:"tested"` // Raw p-value entered the family correction
	CorrectedPValue  Optional         `json:"corrected_p_value"`
	Significance     Significance     `json:"significance"`
}

// ============================================================================
// FAMILIES
// ============================================================================

// FamilyInput is the ordered set of records of one comparison group
type FamilyInput struct {
	Key     core.FamilyKey     `json:"key"`
	Label   string             `json:"label,omitempty"` // e.g. domain of life
	Records []ComparisonRecord `json:"records"`
}

// FamilySummary condenses a family's results
type FamilySummary struct {
	Categories       int      `json:"categories"`
	Tested           int      `json:"tested"`
	Significant      int      `json:"significant"`
	Biased           int      `json:"biased"`
	MedianLogOR      Optional `json:"median_log_or"`
	LowerQuartileLOR Optional `json:"lower_quartile_log_or"`
	UpperQuartileLOR Optional `json:"upper_quartile_log_or"`
	MinLogOR         Optional `json:"min_log_or"`
	MaxLogOR         Optional `json:"max_log_or"`
	MedianNegLog10P  Optional `json:"median_neg_log10_p"` // Of corrected p-values
}

// FamilyResult is the corrected statistics table of one family
type FamilyResult struct {
	Key        core.FamilyKey   `json:"key"`
	Label      string           `json:"label,omitempty"`
	Categories []CategoryResult `json:"categories"`
	Tested     int              `json:"tested"`
	Correction string           `json:"correction"`
	Alpha      float64          `json:"alpha"`
	Summary    FamilySummary    `json:"summary"`
}

// FamilyOutcome is Ok(Result) or Err(Err) for one family of a batch
type FamilyOutcome struct {
	Key    core.FamilyKey `json:"key"`
	Label  string         `json:"label,omitempty"`
	Result *FamilyResult  `json:"result,omitempty"`
	Err    error          `json:"-"`
}

// OK reports whether the family was analyzed
func (o FamilyOutcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// FrequencyTable is one sample's per-category counts, e.g. a proteome's
// numbers of proteins carrying each LCD class.
type FrequencyTable struct {
	Key        core.FamilyKey     `json:"key"`
	Label      string             `json:"label,omitempty"`
	Total      int                `json:"total"`
	Categories []core.CategoryKey `json:"categories"`
	Counts     []int              `json:"counts"` // Parallel to Categories
}
