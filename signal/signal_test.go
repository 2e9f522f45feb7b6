package signal_test

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezex-io/ratatoskr/channel"
	"github.com/ezex-io/ratatoskr/scheduler"
	"github.com/ezex-io/ratatoskr/signal"
)

// TestSignalPipelineOnScheduler covers spec scenario 4: filter(odd).
// map(to_string).then(collect), run on a scheduler, push [1..N], wait,
// halt, wait. The collected result equals to_string of every odd n.
func TestSignalPipelineOnScheduler(t *testing.T) {
	const n = 50

	ch := channel.New[int]()
	sender := ch.Sender()

	base, err := signal.From(ch)
	require.NoError(t, err)

	var mu sync.Mutex
	var collected []string

	pipeline := signal.Map(
		base.Filter(func(v int) bool { return v%2 != 0 }),
		func(v int) string { return strconv.Itoa(v) },
	).Then(func(s string) {
		mu.Lock()
		collected = append(collected, s)
		mu.Unlock()
	})

	sch := scheduler.New()
	pipeline.RunOn(sch)

	for i := 1; i <= n; i++ {
		sender.Push(i)
	}

	time.Sleep(100 * time.Millisecond)
	sch.Halt()
	sch.Wait()

	var expected []string
	for i := 1; i <= n; i++ {
		if i%2 != 0 {
			expected = append(expected, strconv.Itoa(i))
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, expected, collected)
}

// TestExactlyOnceFinalizationUnderParallelism covers spec scenario 5: a
// signal with parallelism 4 and one finalizer incrementing a shared
// counter; after halt+wait, the counter equals 1 regardless of how many
// workers observed the close.
func TestExactlyOnceFinalizationUnderParallelism(t *testing.T) {
	ch := channel.New[int]()
	sender := ch.Sender()

	base, err := signal.From(ch)
	require.NoError(t, err)

	var finalCount atomic.Int32
	pipeline := base.Finally(func() error {
		finalCount.Add(1)

		return nil
	})

	sch := scheduler.New()
	pipeline.RunOnParallel(sch, 4)

	for i := 0; i < 100; i++ {
		sender.Push(i)
	}

	sch.Halt()
	sch.Wait()

	assert.Equal(t, int32(1), finalCount.Load())
}

// TestCloseBeforeRun covers spec scenario 6: the channel is closed before
// the signal is even constructed; RunOnParallel's workers must terminate
// promptly and finalizers still run exactly once.
func TestCloseBeforeRun(t *testing.T) {
	ch := channel.New[int]()
	sender := ch.Sender()
	sender.Close()

	base, err := signal.From(ch)
	require.NoError(t, err)

	var finalCount atomic.Int32
	pipeline := base.Finally(func() error {
		finalCount.Add(1)

		return nil
	})

	sch := scheduler.New()
	pipeline.RunOnParallel(sch, 4)

	done := make(chan struct{})
	go func() {
		sch.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not terminate promptly on an already-closed channel")
	}

	assert.Equal(t, int32(1), finalCount.Load())
}

// TestFinalizerFailurePolicyIsLogAndContinue documents and verifies the
// open question's resolution: a failing finalizer does not stop the
// remaining ones, and its error is still surfaced to the caller.
func TestFinalizerFailurePolicyIsLogAndContinue(t *testing.T) {
	ch := channel.New[int]()
	sender := ch.Sender()

	base, err := signal.From(ch)
	require.NoError(t, err)

	var secondRan atomic.Bool
	pipeline := base.
		Finally(func() error { return assert.AnError }).
		Finally(func() error {
			secondRan.Store(true)

			return nil
		})

	sender.Close()

	_, err = pipeline.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, secondRan.Load())
}
