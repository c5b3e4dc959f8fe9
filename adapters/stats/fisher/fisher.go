// Package fisher implements the two-sided Fisher exact test on 2x2 tables.
package fisher

import (
	"fmt"
	"math"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"

	"gonum.org/v1/gonum/stat/combin"
)

// relErr is the relative tolerance used when deciding whether a table is at
// least as extreme as the observed one.
const relErr = 1 + 1e-7

// Table is a 2x2 contingency table laid out as [[A, B], [C, D]]
type Table struct {
	A, B int // observed sample: with, without
	C, D int // reference sample: with, without
}

// NewTable builds [[oc, ot-oc], [ec, et-ec]] from counts and totals
func NewTable(observedCount, observedTotal, expectedCount, expectedTotal int) Table {
	return Table{
		A: observedCount,
		B: observedTotal - observedCount,
		C: expectedCount,
		D: expectedTotal - expectedCount,
	}
}

// Result of a Fisher exact test
type Result struct {
	OddsRatio stats.Optional // Sample odds ratio AD/BC, undefined when infinite or NaN
	PValue    float64        // Two-sided; 0.0 when the sum underflows
}

// Test runs the two-sided Fisher exact test. The p-value sums the
// hypergeometric probabilities of every table with the observed margins
// whose probability does not exceed the observed table's.
func Test(t Table) (Result, error) {
	if t.A < 0 || t.B < 0 || t.C < 0 || t.D < 0 {
		return Result{}, core.NewCountError("contingency table", fmt.Sprintf("has a negative cell %v", t))
	}

	res := Result{OddsRatio: stats.Finite(sampleOddsRatio(t))}

	row1, row2 := t.A+t.B, t.C+t.D
	col1, col2 := t.A+t.C, t.B+t.D
	if row1 == 0 || row2 == 0 || col1 == 0 || col2 == 0 {
		res.PValue = 1.0
		return res, nil
	}

	n := row1 + row2
	lo := max(0, row1-col2)
	hi := min(row1, col1)

	logDenom := combin.LogGeneralizedBinomial(float64(n), float64(row1))
	logPMF := func(x int) float64 {
		return combin.LogGeneralizedBinomial(float64(col1), float64(x)) +
			combin.LogGeneralizedBinomial(float64(col2), float64(row1-x)) -
			logDenom
	}

	threshold := logPMF(t.A) + math.Log(relErr)
	var p float64
	for x := lo; x <= hi; x++ {
		if lp := logPMF(x); lp <= threshold {
			p += math.Exp(lp)
		}
	}
	res.PValue = math.Min(p, 1.0)
	return res, nil
}

// sampleOddsRatio follows the usual convention: NaN for an empty margin,
// +Inf when B or C is zero.
func sampleOddsRatio(t Table) float64 {
	if t.A+t.B == 0 || t.C+t.D == 0 || t.A+t.C == 0 || t.B+t.D == 0 {
		return math.NaN()
	}
	if t.B > 0 && t.C > 0 {
		return (float64(t.A) * float64(t.D)) / (float64(t.B) * float64(t.C))
	}
	return math.Inf(1)
}
