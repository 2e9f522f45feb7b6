package channel

import (
	"sync"

	"github.com/ezex-io/ratatoskr/errors"
)

// state is the shared buffer and synchronization core behind one channel.
// A single mutex protects the buffer, the has-receiver flag and the closed
// flag; a condition variable wakes blocked consumers on push and on close.
//
// The buffer is a plain Go slice; a consumer's cursor is just the last
// index it has read, always advanced under s.mu. This sidesteps the
// pop-front-under-race hazard a linked-list-backed buffer with concurrent
// shared consumers would otherwise have.
type state[T any] struct {
	mu          sync.Mutex
	cond        *sync.Cond
	buffer      []T
	hasReceiver bool
	closed      bool
}

func newState[T any]() *state[T] {
	s := &state[T]{}
	s.cond = sync.NewCond(&s.mu)

	return s
}

// push appends item to the buffer tail and wakes one waiter. Pushes after
// close are silent no-ops. Pushes before a receiver has ever been
// constructed are also silently dropped — this mirrors the source's
// behavior exactly and is documented, not accidental (spec open question).
func (s *state[T]) push(item T) {
	s.mu.Lock()
	if s.closed || !s.hasReceiver {
		s.mu.Unlock()

		return
	}
	s.buffer = append(s.buffer, item)
	s.mu.Unlock()
	s.cond.Signal()
}

// close is idempotent; it marks the channel closed and wakes every waiter.
func (s *state[T]) close() {
	s.mu.Lock()
	first := !s.closed
	s.closed = true
	s.mu.Unlock()

	if first {
		s.cond.Broadcast()
	}
}

func (s *state[T]) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// tryTakeReceiver marks the channel as having a receiver, unless one was
// already taken or the channel is already closed.
func (s *state[T]) tryTakeReceiver() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasReceiver {
		return errors.ErrReceiverAlreadyTaken
	}
	if s.closed {
		return errors.ErrChannelAlreadyClosed
	}
	s.hasReceiver = true

	return nil
}

// next blocks the caller until the slot past cursor exists or the channel
// closes. Buffered items present at wake time are always delivered before
// the close signal is surfaced.
func (s *state[T]) next(cursor int) (item T, newCursor int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for cursor+1 >= len(s.buffer) && !s.closed {
		s.cond.Wait()
	}

	if cursor+1 < len(s.buffer) {
		return s.buffer[cursor+1], cursor + 1, true
	}

	var zero T

	return zero, cursor, false
}
