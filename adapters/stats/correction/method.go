package correction

import (
	"fmt"
	"math"

	"lcdstats/internal/errors"
)

// Method names a family-wise correction procedure
type Method string

const (
	MethodSidakHolm Method = "sidak-holm" // Step-down Sidak (default)
	MethodSidak     Method = "sidak"      // Single-step Sidak
	MethodBH        Method = "bh"         // Benjamini-Hochberg FDR
	MethodNone      Method = "none"       // Raw p-values
)

// DefaultFloor replaces p == 0 before taking a logarithm.
const DefaultFloor = 1e-300

// Corrector corrects one family of p-values. Implementations must return a
// slice of the input's length and order.
type Corrector interface {
	Name() string
	Correct(pvals []float64) ([]float64, error)
}

type funcCorrector struct {
	name string
	fn   func([]float64) ([]float64, error)
}

func (c funcCorrector) Name() string { return c.name }

func (c funcCorrector) Correct(pvals []float64) ([]float64, error) { return c.fn(pvals) }

// New returns the corrector for method
func New(method Method) (Corrector, error) {
	switch method {
	case MethodSidakHolm, "":
		return funcCorrector{name: string(MethodSidakHolm), fn: SidakHolm}, nil
	case MethodSidak:
		return funcCorrector{name: string(MethodSidak), fn: Sidak}, nil
	case MethodBH:
		return funcCorrector{name: string(MethodBH), fn: BenjaminiHochberg}, nil
	case MethodNone:
		return funcCorrector{name: string(MethodNone), fn: identity}, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown correction method %q", method))
	}
}

// BenjaminiHochberg computes q_i = p_i * m / rank, made monotone from the
// largest p downward and clamped to 1.
func BenjaminiHochberg(pvals []float64) ([]float64, error) {
	if err := validate(pvals); err != nil {
		return nil, err
	}
	m := len(pvals)
	q := make([]float64, m)
	order := ascendingOrder(pvals)

	running := 1.0
	for k := m - 1; k >= 0; k-- {
		idx := order[k]
		rank := k + 1
		v := pvals[idx] * float64(m) / float64(rank)
		running = math.Min(running, v)
		q[idx] = running
	}
	return q, nil
}

func identity(pvals []float64) ([]float64, error) {
	if err := validate(pvals); err != nil {
		return nil, err
	}
	out := make([]float64, len(pvals))
	copy(out, pvals)
	return out, nil
}

// NegLog10 returns -log10(p) with p floored at floor, so p == 0 stays finite
func NegLog10(p, floor float64) float64 {
	if floor <= 0 {
		floor = DefaultFloor
	}
	return -math.Log10(math.Max(p, floor))
}
