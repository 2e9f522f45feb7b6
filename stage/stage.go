// Package stage implements a small transformation algebra over channel
// items. A Stage is a unary function from T to an optional U; stages
// compose via Chain (and its typed ChainX helpers), short-circuiting once
// any stage in the chain yields no value.
//
// Go generics can't add a new type parameter to a method, so type-changing
// composition (Map, TryMap) is expressed as free functions rather than
// fluent methods; this is the same shape the standard library's
// slices/maps packages use for the same reason.
package stage

// Stage transforms an input T into an optional output U. Apply returns
// (value, true) when the stage yields, or (zero, false) when it doesn't —
// callers must stop the chain on false rather than inspect the zero value.
type Stage[T, U any] interface {
	Apply(T) (U, bool)
}

type fn[T, U any] func(T) (U, bool)

func (f fn[T, U]) Apply(in T) (U, bool) {
	return f(in)
}

// Identity passes its input through unchanged: the neutral element of
// composition. Chain(Identity[T](), s) and Chain(s, Identity[U]()) both
// behave exactly like s.
func Identity[T any]() Stage[T, T] {
	return fn[T, T](func(in T) (T, bool) {
		return in, true
	})
}

// Map transforms every input via f; it always yields.
func Map[T, U any](f func(T) U) Stage[T, U] {
	return fn[T, U](func(in T) (U, bool) {
		return f(in), true
	})
}

// Filter drops inputs for which p returns false.
func Filter[T any](p func(T) bool) Stage[T, T] {
	return fn[T, T](func(in T) (T, bool) {
		if !p(in) {
			var zero T

			return zero, false
		}

		return in, true
	})
}

// TryMap transforms via f, which itself decides whether to yield.
func TryMap[T, U any](f func(T) (U, bool)) Stage[T, U] {
	return fn[T, U](f)
}

// Then calls f for its side effect and passes the input through unchanged.
func Then[T any](f func(T)) Stage[T, T] {
	return fn[T, T](func(in T) (T, bool) {
		f(in)

		return in, true
	})
}

// Chain composes s and next: apply s, and if it yields, apply next to the
// result. Once either stage yields nothing, the chain short-circuits.
func Chain[T, U, V any](s Stage[T, U], next Stage[U, V]) Stage[T, V] {
	return fn[T, V](func(in T) (V, bool) {
		mid, ok := s.Apply(in)
		if !ok {
			var zero V

			return zero, false
		}

		return next.Apply(mid)
	})
}

// ChainMap extends s with a Map stage.
func ChainMap[T, U, V any](s Stage[T, U], f func(U) V) Stage[T, V] {
	return Chain[T, U, V](s, Map(f))
}

// ChainFilter extends s with a Filter stage.
func ChainFilter[T, U any](s Stage[T, U], p func(U) bool) Stage[T, U] {
	return Chain[T, U, U](s, Filter(p))
}

// ChainTryMap extends s with a TryMap stage.
func ChainTryMap[T, U, V any](s Stage[T, U], f func(U) (V, bool)) Stage[T, V] {
	return Chain[T, U, V](s, TryMap(f))
}

// ChainThen extends s with a Then stage.
func ChainThen[T, U any](s Stage[T, U], f func(U)) Stage[T, U] {
	return Chain[T, U, U](s, Then(f))
}
