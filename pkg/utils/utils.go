package utils

// ToPointer returns a pointer to the given value.
func ToPointer[T any](v T) *T {
	return &v
}

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
