package scheduler

import (
	"sync"

	"github.com/ezex-io/ratatoskr/channel"
	"github.com/ezex-io/ratatoskr/logger"
)

// Scheduler is a registry of workers and the closers that can stop them,
// unifying cancellation across however many channel/signal pipelines a
// program wires together.
//
// Workers are plain func() error goroutines; a Scheduler does not know or
// care what a worker does, only how to join it (Wait) and how to ask it to
// stop (Halt, via the closers registered alongside it).
type Scheduler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	halted  bool
	closers []channel.Closer
	wg      sync.WaitGroup
}

// New constructs an idle Scheduler ready to accept Connect/ConnectCloser/
// ConnectAll calls.
func New() *Scheduler {
	s := &Scheduler{}
	s.cond = sync.NewCond(&s.mu)

	return s
}

// Connect spawns worker on its own goroutine without registering any closer
// for it. Halt will not stop this worker directly; use ConnectCloser or
// ConnectAll when the worker should be cancellable through the scheduler.
// If the scheduler has already halted, worker runs inline and Connect
// returns only once it has finished, rather than leaving it to spawn a
// goroutine nothing will ever join.
func (s *Scheduler) Connect(worker func() error) {
	s.mu.Lock()
	halted := s.halted
	s.mu.Unlock()

	if halted {
		s.runInline(worker)

		return
	}

	s.spawn(worker)
}

// ConnectCloser spawns worker and registers closer so that a future Halt
// call closes it, which in turn should cause worker to observe a closed
// channel and return. If the scheduler has already halted, closer is
// closed immediately and worker runs inline rather than being registered
// and spawned — Halt's closer list has already been snapshotted and
// broadcast, so a worker added afterward would otherwise never be closed
// or joined.
func (s *Scheduler) ConnectCloser(worker func() error, closer channel.Closer) {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		closer.Close()
		s.runInline(worker)

		return
	}
	s.closers = append(s.closers, closer)
	s.mu.Unlock()

	s.spawn(worker)
}

// ConnectAll spawns every worker in workers, all sharing the single closer
// given (the shape produced by Signal.RunOnParallel: many workers pulling
// from one SharedReceiver, stopped by one Close call). If the scheduler has
// already halted, closer is closed immediately and every worker runs inline
// rather than being registered and spawned, for the same reason as
// ConnectCloser.
func (s *Scheduler) ConnectAll(workers []func() error, closer channel.Closer) {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		closer.Close()
		for _, worker := range workers {
			s.runInline(worker)
		}

		return
	}
	s.closers = append(s.closers, closer)
	s.mu.Unlock()

	for _, worker := range workers {
		s.spawn(worker)
	}
}

func (s *Scheduler) spawn(worker func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runInline(worker)
	}()
}

func (s *Scheduler) runInline(worker func() error) {
	if err := worker(); err != nil {
		logger.Error("scheduler: worker failed", "error", err)
	}
}

// Halt closes every closer registered with the scheduler and wakes any
// goroutine blocked in Wait. Idempotent: calling it more than once, or from
// multiple goroutines, closes each closer at most once.
func (s *Scheduler) Halt() {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()

		return
	}
	s.halted = true
	closers := s.closers
	s.mu.Unlock()

	for _, c := range closers {
		c.Close()
	}

	s.cond.Broadcast()
}

// Wait blocks until Halt has been called, then joins every worker spawned
// through Connect/ConnectCloser/ConnectAll. Calling Wait before Halt blocks
// until some other goroutine calls Halt.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	for !s.halted {
		s.cond.Wait()
	}
	s.mu.Unlock()

	s.wg.Wait()
}
