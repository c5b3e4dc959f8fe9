// Package correction adjusts a family of p-values for multiple testing.
package correction

import (
	"math"
	"math/big"
	"sort"
	"strconv"

	"lcdstats/domain/core"
)

const (
	// precisionBits holds 1-p exactly for every float64 p, subnormals
	// included (about 616 decimal digits).
	precisionBits = 2048
	// significantDigits is the rounding applied to every corrected value.
	significantDigits = 16
)

// SidakHolm applies the Sidak-Holm step-down correction. The k-th smallest
// p-value (k from 0) is adjusted to 1-(1-p)^(m-k); a running maximum from the
// smallest toward the largest keeps the corrected values non-decreasing in
// raw p. The output has the input's length and order.
func SidakHolm(pvals []float64) ([]float64, error) {
	if err := validate(pvals); err != nil {
		return nil, err
	}

	m := len(pvals)
	corrected := make([]float64, m)
	if m == 0 {
		return corrected, nil
	}

	order := ascendingOrder(pvals)
	running := newFloat()
	for k, idx := range order {
		step := sidakStep(pvals[idx], m-k)
		if step.Cmp(running) > 0 {
			running.Set(step)
		}
		corrected[idx] = round(running)
	}
	return corrected, nil
}

// Sidak applies the single-step Sidak correction 1-(1-p)^m to every value.
func Sidak(pvals []float64) ([]float64, error) {
	if err := validate(pvals); err != nil {
		return nil, err
	}
	corrected := make([]float64, len(pvals))
	for i, p := range pvals {
		corrected[i] = round(sidakStep(p, len(pvals)))
	}
	return corrected, nil
}

// sidakStep computes 1-(1-p)^n in extended precision
func sidakStep(p float64, n int) *big.Float {
	one := newFloat().SetInt64(1)
	q := newFloat().Sub(one, newFloat().SetFloat64(p))
	return newFloat().Sub(one, powInt(q, n))
}

// powInt raises x to a non-negative integer power by repeated squaring
func powInt(x *big.Float, n int) *big.Float {
	result := newFloat().SetInt64(1)
	base := newFloat().Set(x)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, base)
		}
		base.Mul(base, base)
		n >>= 1
	}
	return result
}

func newFloat() *big.Float {
	return new(big.Float).SetPrec(precisionBits)
}

// round converts to float64 through a 16-significant-digit decimal
func round(x *big.Float) float64 {
	v, err := strconv.ParseFloat(x.Text('g', significantDigits), 64)
	if err != nil {
		f, _ := x.Float64()
		return f
	}
	return v
}

// ascendingOrder returns input positions stably sorted by p-value
func ascendingOrder(pvals []float64) []int {
	order := make([]int, len(pvals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pvals[order[a]] < pvals[order[b]]
	})
	return order
}

func validate(pvals []float64) error {
	for i, p := range pvals {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return core.NewPValueError(i, p)
		}
	}
	return nil
}
