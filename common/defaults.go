package common

import "cmp"

// Coalesce returns the first non-zero value, or the zero value if every input is zero.
// Used to fill unset staging or config fields with engine defaults.
//
// Parameters:
//   - values: candidate values in priority order
//
// Returns:
//   - T: the first non-zero value
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// PositiveOr returns v when it is greater than zero, otherwise fallback.
// Builder options use this to treat non-positive rates and sizes as "use the default".
//
// Parameters:
//   - v: the requested value
//   - fallback: the value to use when v <= 0
//
// Returns:
//   - T: v or fallback
func PositiveOr[T cmp.Ordered](v, fallback T) T {
	var zero T
	if v > zero {
		return v
	}
	return fallback
}
