package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// NotAvailable is the textual form of an undefined value in tabular output.
const NotAvailable = "N/A"

// Optional is a float64 that may be undefined. The zero value is undefined,
// so a missing estimate can never be read as a numeric zero.
type Optional struct {
	value float64
	valid bool
}

// Some wraps a defined value
func Some(v float64) Optional {
	return Optional{value: v, valid: true}
}

// None returns an undefined value
func None() Optional {
	return Optional{}
}

// Finite returns Some(v) for finite v and None for NaN or infinities
func Finite(v float64) Optional {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None()
	}
	return Some(v)
}

// Get returns the value and whether it is defined
func (o Optional) Get() (float64, bool) {
	return o.value, o.valid
}

// Valid reports whether the value is defined
func (o Optional) Valid() bool {
	return o.valid
}

// OrElse returns the value, or def when undefined
func (o Optional) OrElse(def float64) float64 {
	if !o.valid {
		return def
	}
	return o.value
}

// Map applies fn to a defined value; undefined stays undefined
func (o Optional) Map(fn func(float64) float64) Optional {
	if !o.valid {
		return o
	}
	return Finite(fn(o.value))
}

// String formats the value with the shortest round-trip representation
func (o Optional) String() string {
	if !o.valid {
		return NotAvailable
	}
	return strconv.FormatFloat(o.value, 'g', -1, 64)
}

// MarshalJSON encodes undefined values as null
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON accepts a number or null
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
