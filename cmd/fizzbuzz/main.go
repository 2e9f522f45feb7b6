// Command fizzbuzz feeds the numbers 1..100 through a channel and a
// stage.Bundle that independently Fizzes, Buzzes and prints plain numbers —
// the Bundle fan-out scenario from the package's test suite, run as a
// standalone program.
package main

import (
	"fmt"
	"strconv"

	"github.com/ezex-io/ratatoskr/channel"
	"github.com/ezex-io/ratatoskr/logger"
	"github.com/ezex-io/ratatoskr/signal"
	"github.com/ezex-io/ratatoskr/stage"
)

func main() {
	logger.InitGlobalLogger()

	ch := channel.New[int]()
	sender := ch.Sender()

	sig, err := signal.From(ch)
	if err != nil {
		logger.Fatal("fizzbuzz: failed to build signal", "error", err)
	}

	bundle := stage.NewBundle(
		stage.ChainThen[int, int](
			stage.Filter(func(n int) bool { return n%3 == 0 }),
			func(int) { fmt.Print("Fizz") },
		),
		stage.ChainThen[int, int](
			stage.Filter(func(n int) bool { return n%5 == 0 }),
			func(int) { fmt.Print("Buzz") },
		),
		stage.ChainThen[int, int](
			stage.Filter(func(n int) bool { return n%3 != 0 && n%5 != 0 }),
			func(n int) { fmt.Print(strconv.Itoa(n)) },
		),
		stage.Then(func(int) { fmt.Println() }),
	)

	fizzbuzz := sig.Then(bundle.Invoke)

	go func() {
		for i := 1; i <= 100; i++ {
			sender.Push(i)
		}
		sender.Close()
	}()

	if err := fizzbuzz.Run(); err != nil {
		logger.Error("fizzbuzz: run finished with error", "error", err)
	}
}
