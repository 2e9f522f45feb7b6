package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezex-io/ratatoskr/scheduler"
)

type countingJob struct {
	calls *atomic.Int32
	fail  bool
}

func (j countingJob) Run(context.Context) error {
	j.calls.Add(1)
	if j.fail {
		return errors.New("job failed")
	}

	return nil
}

func TestJobRunnerRunsAllJobsEveryTick(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	runner := scheduler.NewJobRunner(ctx, "test")

	var a, b atomic.Int32
	runner.AddJob(countingJob{calls: &a})
	runner.AddJob(countingJob{calls: &b})

	var successes atomic.Int32
	runner.Start(2*time.Millisecond, func() {
		successes.Add(1)
	})

	assert.Eventually(t, func() bool {
		return a.Load() >= 2 && b.Load() >= 2 && successes.Load() >= 2
	}, time.Second, 2*time.Millisecond)
}

func TestJobRunnerSkipsOnSuccessWhenAJobFails(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	runner := scheduler.NewJobRunner(ctx, "test")

	var calls atomic.Int32
	runner.AddJob(countingJob{calls: &calls, fail: true})

	var successes atomic.Int32
	runner.Start(2*time.Millisecond, func() {
		successes.Add(1)
	})

	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 2*time.Millisecond)

	assert.Equal(t, int32(0), successes.Load())
}
