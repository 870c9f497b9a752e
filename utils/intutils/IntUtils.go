// Package intutils provides helpers for working with ints
package intutils

// Min returns the minimum of ints. It panics if ints is empty.
func Min(ints ...int) int {
	min := ints[0]
	for _, val := range ints[1:] {
		if val < min {
			min = val
		}
	}
	return min
}

// Max returns the maximum of ints. It panics if ints is empty.
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints[1:] {
		if val > max {
			max = val
		}
	}
	return max
}

// Clamp returns value limited to the interval [lo, hi]. If lo > hi,
// hi is returned.
func Clamp(value, lo, hi int) int {
	return Min(Max(value, lo), hi)
}
