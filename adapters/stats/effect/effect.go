// Package effect computes odds ratios with Wald confidence intervals for
// observed-versus-expected count comparisons.
package effect

import (
	"math"

	"lcdstats/adapters/stats/fisher"
	"lcdstats/domain/stats"
)

// Z95 is the normal critical value for a two-sided 95% interval.
const Z95 = 1.96

// Compute runs the Fisher exact test on [[oc, ot-oc], [ec, et-ec]] and
// derives the log odds ratio and its 95% Wald interval on the log scale.
// Zero and boundary counts are not errors: they yield a degenerate result
// with undefined log odds ratio and interval. Only contract violations
// (negative counts, count above total, non-positive total) return an error.
func Compute(observedCount, observedTotal, expectedCount, expectedTotal int) (stats.StatisticResult, error) {
	if err := stats.ValidateCounts(observedCount, observedTotal, expectedCount, expectedTotal); err != nil {
		return stats.StatisticResult{}, err
	}

	test, err := fisher.Test(fisher.NewTable(observedCount, observedTotal, expectedCount, expectedTotal))
	if err != nil {
		return stats.StatisticResult{}, err
	}

	res := stats.StatisticResult{
		RawOddsRatio: test.OddsRatio,
		PValue:       test.PValue,
	}

	if stats.IsDegenerate(observedCount, observedTotal, expectedCount, expectedTotal) {
		res.Degenerate = true
		return res, nil
	}

	or, ok := test.OddsRatio.Get()
	if !ok || or <= 0 {
		res.Degenerate = true
		return res, nil
	}

	res.OddsRatio = stats.Some(or)
	lnOR := math.Log(or)
	se := math.Sqrt(1/float64(observedCount) + 1/float64(observedTotal) +
		1/float64(expectedCount) + 1/float64(expectedTotal))

	res.LogOddsRatio = stats.Some(lnOR)
	res.CILower = stats.Some(lnOR - Z95*se)
	res.CIUpper = stats.Some(lnOR + Z95*se)
	return res, nil
}

// ComputeBiased recomputes the result with all four counts incremented by one.
// The result can still be degenerate when a count equals its total.
func ComputeBiased(observedCount, observedTotal, expectedCount, expectedTotal int) (stats.StatisticResult, error) {
	res, err := Compute(observedCount+1, observedTotal+1, expectedCount+1, expectedTotal+1)
	if err != nil {
		return stats.StatisticResult{}, err
	}
	res.IsBiased = true
	return res, nil
}

// ComputeRecord is Compute on a ComparisonRecord
func ComputeRecord(r stats.ComparisonRecord) (stats.StatisticResult, error) {
	return Compute(r.ObservedCount, r.ObservedTotal, r.ExpectedCount, r.ExpectedTotal)
}

// NeedsBias reports whether the +1 variant must accompany the primary result
func NeedsBias(primary stats.StatisticResult, observedCount, expectedCount int) bool {
	return primary.Degenerate || observedCount == 0 || expectedCount == 0
}

// FoldChange returns observed/expected when both counts are nonzero. Otherwise
// the plain fold change is undefined and (observed+1)/(expected+1) is
// returned as the biased fold change.
func FoldChange(observedCount, expectedCount int) (fold, biased stats.Optional) {
	if observedCount != 0 && expectedCount != 0 {
		return stats.Some(float64(observedCount) / float64(expectedCount)), stats.None()
	}
	return stats.None(), stats.Some(float64(observedCount+1) / float64(expectedCount+1))
}

// RatioInterval exponentiates the log-scale interval
func RatioInterval(res stats.StatisticResult) (lower, upper stats.Optional) {
	return res.CILower.Map(math.Exp), res.CIUpper.Map(math.Exp)
}
