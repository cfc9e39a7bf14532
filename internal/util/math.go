package util

import (
	"golang.org/x/exp/constraints"
)

// Clamp limits value to the closed range [lower, upper].
func Clamp[T constraints.Ordered](value, lower, upper T) T {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
