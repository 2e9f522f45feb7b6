// Package signal ties a channel's receiver (solo or shared) to a composed
// stage.Stage and an ordered list of finalizers, and knows how to run that
// pipeline to completion — once, on the caller's goroutine, or across a
// pool of parallel workers registered with a scheduler.Scheduler.
package signal

import (
	stderrors "errors"
	"sync/atomic"

	"github.com/ezex-io/ratatoskr/channel"
	ratErrors "github.com/ezex-io/ratatoskr/errors"
	"github.com/ezex-io/ratatoskr/logger"
	"github.com/ezex-io/ratatoskr/scheduler"
	"github.com/ezex-io/ratatoskr/stage"
)

// Signal is a receiver (solo or, after RunOnParallel, shared) plus a
// composed stage and a finalizer list. T is the item type pulled off the
// channel; U is the current stage's output type. Exactly one of solo/shared
// is non-nil for a valid signal.
type Signal[T, U any] struct {
	solo   *channel.Receiver[T]
	shared *channel.SharedReceiver[T]
	closer channel.Closer

	st     stage.Stage[T, U]
	finals []func() error

	// finalized is shared (by pointer) across every worker spawned from the
	// same root signal, so at-most-once finalization holds across
	// RunOnParallel's P copies — see spec's "at-most-once finalization"
	// design note.
	finalized *atomic.Bool
}

// From binds a fresh signal to ch's receiver and closer. Its stage starts
// at Identity and its finalizer list starts empty — the Go analogue of
// signal_from(channel).
func From[T any](ch *channel.Channel[T]) (*Signal[T, T], error) {
	rcv, err := ch.Receiver()
	if err != nil {
		return nil, err
	}

	return &Signal[T, T]{
		solo:      rcv,
		closer:    ch.Closer(),
		st:        stage.Identity[T](),
		finalized: new(atomic.Bool),
	}, nil
}

func (s *Signal[T, U]) derive(next stage.Stage[T, U]) *Signal[T, U] {
	return &Signal[T, U]{
		solo:      s.solo,
		shared:    s.shared,
		closer:    s.closer,
		st:        next,
		finals:    s.finals,
		finalized: s.finalized,
	}
}

// Filter extends the stage with a predicate over its current output type.
func (s *Signal[T, U]) Filter(p func(U) bool) *Signal[T, U] {
	return s.derive(stage.ChainFilter[T, U](s.st, p))
}

// Then extends the stage with a side effect over its current output type.
func (s *Signal[T, U]) Then(f func(U)) *Signal[T, U] {
	return s.derive(stage.ChainThen[T, U](s.st, f))
}

// Finally appends f to the finalizer list, run exactly once on channel
// close across however many workers eventually run this signal.
func (s *Signal[T, U]) Finally(f func() error) *Signal[T, U] {
	finals := make([]func() error, 0, len(s.finals)+1)
	finals = append(finals, s.finals...)
	finals = append(finals, f)

	return &Signal[T, U]{
		solo:      s.solo,
		shared:    s.shared,
		closer:    s.closer,
		st:        s.st,
		finals:    finals,
		finalized: s.finalized,
	}
}

// Map extends sig's stage with a type-changing transform. It is a free
// function rather than a method because Go forbids a method from
// introducing a new type parameter.
func Map[T, U, V any](sig *Signal[T, U], f func(U) V) *Signal[T, V] {
	return &Signal[T, V]{
		solo:      sig.solo,
		shared:    sig.shared,
		closer:    sig.closer,
		st:        stage.ChainMap[T, U, V](sig.st, f),
		finals:    sig.finals,
		finalized: sig.finalized,
	}
}

// TryMap extends sig's stage with a type-changing transform that may itself
// decide to drop the item.
func TryMap[T, U, V any](sig *Signal[T, U], f func(U) (V, bool)) *Signal[T, V] {
	return &Signal[T, V]{
		solo:      sig.solo,
		shared:    sig.shared,
		closer:    sig.closer,
		st:        stage.ChainTryMap[T, U, V](sig.st, f),
		finals:    sig.finals,
		finalized: sig.finalized,
	}
}

// pull reads the next raw item off whichever receiver this signal currently
// holds. A signal with neither a solo nor a shared receiver is invalid —
// spec's "running a signal whose receiver is already invalid" programmer
// error.
func (s *Signal[T, U]) pull() (T, error) {
	switch {
	case s.shared != nil:
		return s.shared.Next()
	case s.solo != nil:
		return s.solo.Next()
	default:
		var zero T

		return zero, ratErrors.ErrInvalidSignal
	}
}

// runFinalizers runs every finalizer exactly once, in insertion order, the
// first time any worker observes close. Failures are logged and do not
// stop later finalizers (log-and-continue, the documented resolution of
// spec's open question); their errors are still joined and returned so a
// caller inspecting Run's result can see that something failed.
func (s *Signal[T, U]) runFinalizers() error {
	if !s.finalized.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	for _, f := range s.finals {
		if err := f(); err != nil {
			logger.Error("signal: finalizer failed", "error", err)
			errs = append(errs, err)
		}
	}

	return stderrors.Join(errs...)
}

// Next performs a single pull-and-transform step. Items the stage drops
// (short-circuits) are skipped transparently; Next only returns once the
// stage yields a value or the channel closes, in which case it returns
// ErrChannelClosed after running finalizers exactly once — or, if any
// finalizer failed on that first close, the joined finalizer errors.
func (s *Signal[T, U]) Next() (U, error) {
	for {
		item, err := s.pull()
		if err != nil {
			var zero U
			if stderrors.Is(err, ratErrors.ErrChannelClosed) {
				if ferr := s.runFinalizers(); ferr != nil {
					return zero, ferr
				}
			}

			return zero, err
		}

		out, ok := s.st.Apply(item)
		if ok {
			return out, nil
		}
	}
}

// Run pulls and applies the stage until the channel closes, then runs
// finalizers exactly once and returns. A finalizer failure is returned
// (after every finalizer has still been attempted); a close is normal
// termination and returns nil.
func (s *Signal[T, U]) Run() error {
	for {
		item, err := s.pull()
		if err != nil {
			if stderrors.Is(err, ratErrors.ErrChannelClosed) {
				return s.runFinalizers()
			}

			return err
		}

		s.st.Apply(item)
	}
}

// RunOn spawns one worker goroutine executing Run, and registers it with
// sch under its channel's closer.
func (s *Signal[T, U]) RunOn(sch *scheduler.Scheduler) {
	sch.ConnectCloser(s.Run, s.closer)
}

// RunOnParallel promotes the receiver to a SharedReceiver (if it isn't
// already one) and spawns parallelism worker goroutines, each executing
// Run against the shared receiver, all registered with sch under one
// shared closer. The shared finalized flag ensures finalizers run exactly
// once across every worker; if the channel is already closed, every worker
// observes that immediately and terminates promptly rather than blocking.
func (s *Signal[T, U]) RunOnParallel(sch *scheduler.Scheduler, parallelism int) {
	shared := s.shared
	if shared == nil && s.solo != nil {
		shared = s.solo.Share()
	}

	workers := make([]func() error, parallelism)
	for i := range workers {
		worker := &Signal[T, U]{
			shared:    shared,
			closer:    s.closer,
			st:        s.st,
			finals:    s.finals,
			finalized: s.finalized,
		}
		workers[i] = worker.Run
	}

	sch.ConnectAll(workers, s.closer)
}
