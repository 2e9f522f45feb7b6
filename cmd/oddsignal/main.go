// Command oddsignal wires a channel of integers through a
// filter(odd).map(to_string).then(collect) signal, runs it on a Scheduler,
// pushes 1..N, then halts and waits — the end-to-end signal/scheduler
// scenario from the package's test suite, run as a standalone program.
package main

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ezex-io/ratatoskr/channel"
	"github.com/ezex-io/ratatoskr/logger"
	"github.com/ezex-io/ratatoskr/scheduler"
	"github.com/ezex-io/ratatoskr/signal"
)

const itemCount = 50

func main() {
	logger.InitGlobalLogger()

	ch := channel.New[int]()
	sender := ch.Sender()

	base, err := signal.From(ch)
	if err != nil {
		logger.Fatal("oddsignal: failed to build signal", "error", err)
	}

	var mu sync.Mutex
	var collected []string

	odd := signal.Map(
		base.Filter(func(n int) bool { return n%2 != 0 }),
		func(n int) string { return strconv.Itoa(n) },
	).Then(func(s string) {
		mu.Lock()
		collected = append(collected, s)
		mu.Unlock()
	})

	sched := scheduler.New()
	odd.RunOn(sched)

	go func() {
		for i := 1; i <= itemCount; i++ {
			sender.Push(i)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	sched.Halt()
	sched.Wait()

	mu.Lock()
	defer mu.Unlock()
	fmt.Printf("collected %d odd values: %v\n", len(collected), collected)
}
