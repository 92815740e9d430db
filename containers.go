package expunge

// Slice expunges every element of s into a new slice. A nil slice stays nil.
func Slice[T Expunger[T]](s []T) []T {
	if s == nil {
		return nil
	}

	out := make([]T, len(s))
	for i, v := range s {
		out[i] = v.Expunge()
	}

	return out
}

// Map expunges every value of m into a new map, keeping keys as-is. Keys are
// deliberately untouched: a key that needs sanitizing should not be a key.
func Map[K comparable, V Expunger[V]](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}

	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v.Expunge()
	}

	return out
}

// Set expunges every element of a set represented as map[T]struct{}.
// Elements that collapse to the same sanitized value merge.
func Set[T interface {
	comparable
	Expunger[T]
}](s map[T]struct{}) map[T]struct{} {
	if s == nil {
		return nil
	}

	out := make(map[T]struct{}, len(s))
	for v := range s {
		out[v.Expunge()] = struct{}{}
	}

	return out
}

// Ptr expunges the pointee into a freshly allocated value. The original
// pointee is left untouched; nil stays nil.
func Ptr[T Expunger[T]](p *T) *T {
	if p == nil {
		return nil
	}

	v := (*p).Expunge()

	return &v
}
