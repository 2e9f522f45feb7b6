package scheduler

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is a unit of periodic work run by a JobRunner.
type Job interface {
	Run(ctx context.Context) error
}

// JobRunner runs a fixed set of jobs concurrently on every tick of an
// interval, using errgroup so a single failing job doesn't stop the others
// from being attempted this tick or the runner from being scheduled again
// next tick.
//
// This is a wall-clock "run these jobs every N seconds" concern, distinct
// from the Scheduler type in scheduler.go, which is a worker/closer
// registry for unified cancellation. JobRunner's ticking is built on Every;
// Scheduler does not use After/Every.
type JobRunner struct {
	ctx  context.Context
	jobs []Job
	name string
}

// NewJobRunner constructs an idle JobRunner; jobs are added with AddJob and
// it only starts ticking once Start is called.
func NewJobRunner(ctx context.Context, name string) JobRunner {
	return JobRunner{
		ctx:  ctx,
		jobs: make([]Job, 0),
		name: name,
	}
}

// AddJob registers a job to run on every tick.
func (s *JobRunner) AddJob(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start runs all registered jobs concurrently on the given interval until
// the runner's context is canceled. onSuccess, if non-nil, runs after a
// tick where every job succeeded.
func (s *JobRunner) Start(interval time.Duration, onSuccess func()) {
	Every(s.ctx, interval).Do(func(context.Context) {
		s.runJobs(onSuccess)
	})
}

func (s *JobRunner) runJobs(onSuccess func()) {
	group, ctx := errgroup.WithContext(s.ctx)

	for _, j := range s.jobs {
		job := j
		group.Go(func() error {
			if err := job.Run(ctx); err != nil {
				log.Printf("%s: job failed: %v", s.name, err)

				return err
			}

			return nil
		})
	}

	if err := group.Wait(); err == nil && onSuccess != nil {
		onSuccess()
	}
}
