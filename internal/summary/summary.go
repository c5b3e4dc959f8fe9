// Package summary condenses a family's per-category statistics into the
// handful of numbers reported alongside the full table.
package summary

import (
	"lcdstats/adapters/stats/correction"
	"lcdstats/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// Summarize computes counts and lnOR / corrected p-value distribution markers.
// Quartiles use the nearest-rank rule so they are defined for any non-empty
// set. Distribution fields stay undefined when no category contributes a value.
func Summarize(categories []stats.CategoryResult, pFloor float64) stats.FamilySummary {
	s := stats.FamilySummary{Categories: len(categories)}

	var lnORs, negLogP []float64
	for _, c := range categories {
		if c.Tested {
			s.Tested++
		}
		if c.Significance == stats.Significant {
			s.Significant++
		}
		if c.Biased != nil {
			s.Biased++
		}
		if v, ok := c.Primary.LogOddsRatio.Get(); ok {
			lnORs = append(lnORs, v)
		}
		if p, ok := c.CorrectedPValue.Get(); ok {
			negLogP = append(negLogP, correction.NegLog10(p, pFloor))
		}
	}

	s.MedianLogOR = measure(lnORs, mstats.Median)
	s.LowerQuartileLOR = measure(lnORs, func(d mstats.Float64Data) (float64, error) { return mstats.PercentileNearestRank(d, 25) })
	s.UpperQuartileLOR = measure(lnORs, func(d mstats.Float64Data) (float64, error) { return mstats.PercentileNearestRank(d, 75) })
	s.MinLogOR = measure(lnORs, mstats.Min)
	s.MaxLogOR = measure(lnORs, mstats.Max)
	s.MedianNegLog10P = measure(negLogP, mstats.Median)
	return s
}

func measure(data []float64, fn func(mstats.Float64Data) (float64, error)) stats.Optional {
	if len(data) == 0 {
		return stats.None()
	}
	v, err := fn(data)
	if err != nil {
		return stats.None()
	}
	return stats.Finite(v)
}
