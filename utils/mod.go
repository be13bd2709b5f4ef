package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Filter returns the elements of slice that keep accepts, in order.
func Filter[T any](slice []T, keep func(T) bool) []T {
	var out []T
	for _, v := range slice {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
