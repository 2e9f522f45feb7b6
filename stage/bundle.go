package stage

// Bundle is an ordered collection of type-preserving stages applied to the
// same input, for side effects — component D's bundle(). Every stage in a
// Bundle sees the original input value; unlike Chain, outputs are not
// threaded from one stage to the next. The source's "last stage receives
// the input by move" optimization has no analogue for Go value/pointer
// semantics — every Bundle element simply receives the same input.
type Bundle[T any] struct {
	stages []Stage[T, T]
}

// NewBundle builds a Bundle from an ordered list of stages.
func NewBundle[T any](stages ...Stage[T, T]) Bundle[T] {
	return Bundle[T]{stages: append([]Stage[T, T](nil), stages...)}
}

// BundleWith extends the sequence, returning a new Bundle.
func (b Bundle[T]) BundleWith(more ...Stage[T, T]) Bundle[T] {
	combined := make([]Stage[T, T], 0, len(b.stages)+len(more))
	combined = append(combined, b.stages...)
	combined = append(combined, more...)

	return Bundle[T]{stages: combined}
}

// Invoke applies every stage in the bundle to input, in order. Each stage's
// own short-circuit is local to it — one stage yielding nothing does not
// affect the others.
func (b Bundle[T]) Invoke(input T) {
	for _, s := range b.stages {
		s.Apply(input)
	}
}
