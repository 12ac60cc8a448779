package schema

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// Value is the result of a measure applied to one snapshot. It is a scalar,
// a per-node map, a per-pair map, or missing.
type Value struct {
	kind   ValueKind
	scalar float64
	keyed  map[string]float64
}

// Missing returns a missing value.
func Missing() Value {
	return Value{kind: MissingKind, scalar: math.NaN()}
}

// Scalar returns a scalar value. NaN is reported as missing.
func Scalar(v float64) Value {
	if math.IsNaN(v) {
		return Missing()
	}
	return Value{kind: ScalarKind, scalar: v}
}

// NodeValues returns a value keyed by node identifier.
func NodeValues(m map[string]float64) Value {
	return Value{kind: NodeKind, scalar: math.NaN(), keyed: m}
}

// PairValues returns a value keyed by pair key (see PairKey).
func PairValues(m map[string]float64) Value {
	return Value{kind: PairKind, scalar: math.NaN(), keyed: m}
}

// Kind returns the shape of the value. The zero Value is missing.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return MissingKind
	}
	return v.kind
}

// IsMissing reports whether the value is missing.
func (v Value) IsMissing() bool {
	return v.Kind() == MissingKind
}

// IsScalar reports whether the value is a scalar.
func (v Value) IsScalar() bool {
	return v.kind == ScalarKind
}

// Float returns the scalar, or NaN when the value is not a scalar.
func (v Value) Float() float64 {
	if v.kind != ScalarKind {
		return math.NaN()
	}
	return v.scalar
}

// Keys returns the sorted keys of a keyed value.
func (v Value) Keys() []string {
	return slices.Sorted(maps.Keys(v.keyed))
}

// At returns the entry for key, or NaN when absent.
func (v Value) At(key string) float64 {
	if x, ok := v.keyed[key]; ok {
		return x
	}
	return math.NaN()
}

// Len returns the number of keyed entries.
func (v Value) Len() int {
	return len(v.keyed)
}

// MarshalJSON writes scalars as numbers, keyed values as objects and missing as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case ScalarKind:
		return json.Marshal(Number(v.scalar))
	case NodeKind, PairKind:
		out := make(map[string]Number, len(v.keyed))
		for k, x := range v.keyed {
			out[k] = Number(x)
		}
		return json.Marshal(out)
	default:
		return []byte("null"), nil
	}
}

// Number is a float64 that marshals NaN and infinities as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}
