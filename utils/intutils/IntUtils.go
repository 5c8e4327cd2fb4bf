// Package intutils implements utility functions on ints
package intutils

// Min calculates and returns the minimum integer in a list
func Min(ints ...int) int {
	min := ints[0]
	for _, val := range ints {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum integer in a list
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints {
		if val > max {
			max = val
		}
	}
	return max
}

// Mod returns a modulo b, with the result always in [0, b) for b > 0.
// Go's % operator keeps the sign of the dividend, which is unusable for
// circular index arithmetic.
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Range returns the integers in [start, stop)
func Range(start, stop int) []int {
	if stop <= start {
		return []int{}
	}
	out := make([]int, stop-start)
	for i := range out {
		out[i] = start + i
	}
	return out
}
