package common

func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys
}

// Diff returns the elements of a which are not in b, keeping their order.
func Diff[T comparable](a, b []T) []T {
	set := make(map[T]struct{}, len(b))
	for _, e := range b {
		set[e] = struct{}{}
	}

	result := []T{}
	for _, e := range a {
		if _, ok := set[e]; !ok {
			result = append(result, e)
		}
	}

	return result
}

// Dedup removes the duplicated elements, keeping the first occurrence.
func Dedup[T comparable](a []T) []T {
	seen := make(map[T]struct{}, len(a))
	result := make([]T, 0, len(a))
	for _, e := range a {
		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		result = append(result, e)
	}

	return result
}
