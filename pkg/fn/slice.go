// Package fn holds small generic helpers shared across the engine.
package fn

// Map applies f to each element.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = f(v)
	}
	return out
}

// FilterMap applies f and keeps results where ok is true.
func FilterMap[T, U any](items []T, f func(T) (U, bool)) []U {
	var out []U
	for _, v := range items {
		if u, ok := f(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// Unique returns unique elements preserving order.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{})
	var out []T
	for _, v := range items {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
