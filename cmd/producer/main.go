// Command producer simulates a multi-producer job feed: several goroutines
// generate random order codes, look up (and memoize) a simulated pricing
// lookup via retry-guarded calls backed by a cache, and push the priced
// orders onto a shared channel for a single consuming signal to print.
// SIGINT/SIGTERM trigger an orderly shutdown through utils.TrapSignal and
// the scheduler.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ezex-io/ratatoskr/cache"
	"github.com/ezex-io/ratatoskr/channel"
	"github.com/ezex-io/ratatoskr/env"
	"github.com/ezex-io/ratatoskr/logger"
	"github.com/ezex-io/ratatoskr/random"
	"github.com/ezex-io/ratatoskr/retry"
	"github.com/ezex-io/ratatoskr/scheduler"
	"github.com/ezex-io/ratatoskr/signal"
	"github.com/ezex-io/ratatoskr/utils"
)

type order struct {
	code  string
	price int
}

func main() {
	logger.InitGlobalLogger()

	producerCount := env.GetEnv[int]("PRODUCER_COUNT", env.WithDefault("4"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prices := cache.NewBasic[string, int](ctx)

	ch := channel.New[order]()
	sender := ch.Sender()

	sig, err := signal.From(ch)
	if err != nil {
		logger.Fatal("producer: failed to build signal", "error", err)
	}

	printer := sig.Then(func(o order) {
		fmt.Printf("order %s priced at %d\n", o.code, o.price)
	})

	sched := scheduler.New()
	printer.RunOn(sched)

	for range producerCount {
		go runProducer(ctx, sender, prices)
	}

	runner := scheduler.NewJobRunner(ctx, "producer-housekeeping")
	runner.AddJob(cacheStatsJob{prices: prices})
	runner.Start(time.Second, nil)

	utils.TrapSignal(func() {
		logger.Info("producer: shutting down")
		cancel()
		sched.Halt()
		sched.Wait()
	})

	sched.Wait()
}

// cacheStatsJob periodically logs how many priced order codes are
// currently memoized, via the scheduler's wall-clock JobRunner.
type cacheStatsJob struct {
	prices cache.Cache[string, int]
}

func (j cacheStatsJob) Run(context.Context) error {
	logger.Info("producer: cache stats", "entries", len(j.prices.Keys()))

	return nil
}

func runProducer(ctx context.Context, sender channel.Sender[order], prices cache.Cache[string, int]) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		code, err := random.GenerateCode(8, random.AlphaNumeric)
		if err != nil {
			logger.Error("producer: failed to generate order code", "error", err)

			return
		}

		price, ok := prices.Get(code)
		if !ok {
			done := make(chan struct{})
			retry.ExecuteAsync(ctx, func() error {
				p, err := lookupPrice(code)
				if err != nil {
					return err
				}
				price = p
				prices.Add(code, price, 10*time.Minute)
				close(done)

				return nil
			}, func(err error) {
				logger.Error("producer: price lookup failed", "code", code, "error", err)
				close(done)
			})

			select {
			case <-done:
			case <-ctx.Done():
				return
			}
		}

		sender.Push(order{code: code, price: price})

		time.Sleep(50 * time.Millisecond)
	}
}

// lookupPrice simulates a flaky pricing service.
func lookupPrice(code string) (int, error) {
	if rand.IntN(5) == 0 {
		return 0, fmt.Errorf("pricing service unavailable for %s", code)
	}

	return len(code) * 100, nil
}
