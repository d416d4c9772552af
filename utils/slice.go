package utils

func Filter[T any](src []T, predicate func(T) bool) []T {
	dst := make([]T, 0, len(src))
	for _, item := range src {
		if predicate(item) {
			dst = append(dst, item)
		}
	}
	return dst
}

func Map[T any, U any](src []T, mapper func(T) U) []U {
	dst := make([]U, 0, len(src))
	for _, item := range src {
		dst = append(dst, mapper(item))
	}
	return dst
}

func Find[T any](items []T, predicate func(T) bool) *T {
	for _, item := range items {
		if predicate(item) {
			return &item
		}
	}
	return nil
}

// Chunk splits src into consecutive slices of at most size elements.
func Chunk[T any](src []T, size int) [][]T {
	if size <= 0 {
		return [][]T{src}
	}
	var chunks [][]T
	for start := 0; start < len(src); start += size {
		end := min(start+size, len(src))
		chunks = append(chunks, src[start:end])
	}
	return chunks
}

// IndexBy builds a lookup map keyed by keyFunc. Later items win on duplicate keys.
func IndexBy[T any, K comparable](items []T, keyFunc func(T) K) map[K]T {
	result := make(map[K]T, len(items))
	for _, item := range items {
		result[keyFunc(item)] = item
	}
	return result
}

func Ptr[T any](v T) *T {
	return &v
}
