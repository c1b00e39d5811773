package models

// Result is the outcome of a best-effort sub-query. A degraded result
// carries the default value the caller should use together with the cause,
// so a real zero and a defaulted zero stay distinguishable.
type Result[T any] struct {
	Value    T
	Degraded bool
	Err      error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Degraded[T any](fallback T, err error) Result[T] {
	return Result[T]{Value: fallback, Degraded: true, Err: err}
}
