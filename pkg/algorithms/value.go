package algorithms

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is a real-valued statistic that may be mathematically undefined, for
// example a Jaccard score over two empty neighbor sets or an assortativity
// coefficient over a degree sequence with zero variance.
//
// The zero Value is Undefined.
type Value struct {
	v       float64
	defined bool
}

// Undefined is the explicit marker for a statistic with no defined value.
var Undefined = Value{}

// Defined wraps v as a defined value.
func Defined(v float64) Value {
	return Value{v: v, defined: true}
}

// Get returns the value and whether it is defined.
func (x Value) Get() (float64, bool) {
	return x.v, x.defined
}

// IsDefined reports whether the value is defined.
func (x Value) IsDefined() bool {
	return x.defined
}

// Float64 returns the value, or NaN when undefined.
func (x Value) Float64() float64 {
	if !x.defined {
		return math.NaN()
	}
	return x.v
}

// OrElse returns the value, or def when undefined.
func (x Value) OrElse(def float64) float64 {
	if !x.defined {
		return def
	}
	return x.v
}

func (x Value) String() string {
	if !x.defined {
		return "undefined"
	}
	return strconv.FormatFloat(x.v, 'g', 6, 64)
}

// MarshalJSON encodes an undefined value as null.
func (x Value) MarshalJSON() ([]byte, error) {
	if !x.defined {
		return []byte("null"), nil
	}
	return json.Marshal(x.v)
}

// UnmarshalJSON decodes null as Undefined.
func (x *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*x = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*x = Defined(v)
	return nil
}
