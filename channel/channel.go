// Package channel implements a multi-producer channel with either a single
// owning consumer or a shared fan-out consumer. The channel buffer is
// unbounded; there is no back-pressure.
package channel

import (
	"sync"

	"github.com/ezex-io/ratatoskr/errors"
	"github.com/ezex-io/ratatoskr/logger"
)

// Channel owns the shared state behind a set of Sender/Receiver/Closer
// handles: a single place to mint the handles that all share one
// underlying state.
type Channel[T any] struct {
	st *state[T]
}

// New creates an empty channel with no receiver yet constructed.
func New[T any]() *Channel[T] {
	return &Channel[T]{st: newState[T]()}
}

// Sender returns a new Sender handle onto the channel. Senders are trivially
// copyable and many may exist.
func (c *Channel[T]) Sender() Sender[T] {
	return Sender[T]{st: c.st}
}

// Closer returns a narrow handle exposing only Close/Valid.
func (c *Channel[T]) Closer() Closer {
	return Closer{st: c.st, valid: true}
}

// Receiver constructs the channel's single Receiver. It fails with
// ErrReceiverAlreadyTaken if one already exists, or ErrChannelAlreadyClosed
// if the channel is already closed.
func (c *Channel[T]) Receiver() (*Receiver[T], error) {
	if err := c.st.tryTakeReceiver(); err != nil {
		return nil, err
	}

	return &Receiver[T]{st: c.st, cursor: -1}, nil
}

// Make constructs a fresh channel and returns its Sender and sole Receiver,
// the Go analogue of make_channel<T>().
func Make[T any]() (Sender[T], *Receiver[T]) {
	ch := New[T]()
	rcv, err := ch.Receiver()
	if err != nil {
		// unreachable: a freshly constructed channel can never already have
		// a receiver or be closed.
		panic(err)
	}

	return ch.Sender(), rcv
}

// MakeShared constructs a fresh channel and returns its Sender and a
// SharedReceiver wrapping its sole Receiver, the Go analogue of
// make_channel<T>(shared_receiver_tag).
func MakeShared[T any]() (Sender[T], *SharedReceiver[T]) {
	snd, rcv := Make[T]()

	return snd, rcv.Share()
}

// Sender publishes items onto a channel. It is safe for concurrent use by
// many goroutines; Push never blocks.
type Sender[T any] struct {
	st *state[T]
}

// Push publishes item. It is a silent no-op if the channel is already
// closed, or if no Receiver has been constructed yet — the latter is an
// intentional, documented behavior inherited from the original source.
func (s Sender[T]) Push(item T) {
	s.st.push(item)
}

// Close closes the channel. Idempotent.
func (s Sender[T]) Close() {
	s.st.close()
}

// IsClosed reports whether the channel has been closed.
func (s Sender[T]) IsClosed() bool {
	return s.st.isClosed()
}

// Receiver is the channel's single consumer. It is not safe for concurrent
// use by multiple goroutines directly — for that, call Share to obtain a
// SharedReceiver.
type Receiver[T any] struct {
	st     *state[T]
	cursor int
}

// Next blocks until an item is available or the channel closes. On close
// with an empty, fully-drained buffer it returns ErrChannelClosed.
func (r *Receiver[T]) Next() (T, error) {
	item, cursor, ok := r.st.next(r.cursor)
	if !ok {
		var zero T

		return zero, errors.ErrChannelClosed
	}
	r.cursor = cursor

	return item, nil
}

// IsClosed reports a snapshot of the channel's closed flag.
func (r *Receiver[T]) IsClosed() bool {
	return r.st.isClosed()
}

// Share converts the Receiver into a SharedReceiver safe for concurrent
// Next calls from many goroutines. The Receiver must not be used directly
// afterward.
func (r *Receiver[T]) Share() *SharedReceiver[T] {
	return &SharedReceiver[T]{inner: r}
}

// SharedReceiver wraps a single Receiver behind a mutex so that concurrent
// Next calls from many consumers are serialized at the receiver level.
// Delivery order across callers is unspecified; each item reaches exactly
// one caller.
type SharedReceiver[T any] struct {
	mu    sync.Mutex
	inner *Receiver[T]
}

// Next behaves like Receiver.Next, serialized across concurrent callers.
func (sr *SharedReceiver[T]) Next() (T, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	return sr.inner.Next()
}

// IsClosed reports a snapshot of the channel's closed flag.
func (sr *SharedReceiver[T]) IsClosed() bool {
	return sr.inner.IsClosed()
}

// Closer is a narrow handle exposing only Close and Valid; it grants no
// producer or consumer capability.
type Closer struct {
	st    interface{ close() }
	valid bool
}

// Close closes the underlying channel. Idempotent, safe from any goroutine.
func (c Closer) Close() {
	if c.valid && c.st != nil {
		c.st.close()
	} else {
		logger.Debug("close called on invalid closer")
	}
}

// Valid reports whether this Closer is bound to a channel.
func (c Closer) Valid() bool {
	return c.valid
}
