// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tram-stm/go-tram/pkg/config"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/logging"
	"github.com/tram-stm/go-tram/pkg/metrics"
	"github.com/tram-stm/go-tram/pkg/primitive/counter"
	"github.com/tram-stm/go-tram/pkg/primitive/list"
	"github.com/tram-stm/go-tram/pkg/stm"
	"go.uber.org/multierr"
)

func newBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench {append,transfer}",
		Short: "Run contention workloads against the transaction engine",
	}
	cmd.PersistentFlags().IntP("workers", "w", 8, "the number of concurrent workers")
	cmd.PersistentFlags().IntP("ops", "n", 1000, "the number of operations per worker")
	cmd.PersistentFlags().Duration("timeout", time.Minute, "the maximum duration of the workload")
	cmd.AddCommand(newBenchAppendCommand())
	cmd.AddCommand(newBenchTransferCommand())
	return cmd
}

func newBenchAppendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "append",
		Short: "Append to a single shared list from every worker",
		Args:  cobra.NoArgs,
		Run:   runBenchAppendCommand,
	}
}

func newBenchTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer random amounts between counters",
		Args:  cobra.NoArgs,
		Run:   runBenchTransferCommand,
	}
	cmd.Flags().IntP("accounts", "a", 10, "the number of counters")
	return cmd
}

// benchmark is a workload run against an engine
type benchmark struct {
	config    config.Config
	workers   int
	ops       int
	collector *metrics.Collector
	engine    *stm.Engine
}

// benchResult is the outcome of a workload
type benchResult struct {
	Name     string
	Ops      int
	Duration time.Duration
	Stats    metrics.Stats
	// Check describes the workload's consistency check
	Check string
}

func (r benchResult) String() string {
	return fmt.Sprintf(`%s: %d operations in %s
  commits:   %d
  attempts:  %d
  conflicts: %d
  exhausted: %d
  failures:  %d
  check:     %s`,
		r.Name, r.Ops, r.Duration,
		r.Stats.Commits, r.Stats.Attempts, r.Stats.Conflicts, r.Stats.Exhausted, r.Stats.Failures,
		r.Check)
}

func newBenchmark(config config.Config, workers, ops int) (*benchmark, error) {
	if workers <= 0 {
		return nil, errors.NewInvalid("workers must be positive")
	}
	if ops < 0 {
		return nil, errors.NewInvalid("ops must not be negative")
	}
	collector := metrics.NewCollector()
	return &benchmark{
		config:    config,
		workers:   workers,
		ops:       ops,
		collector: collector,
		engine:    stm.NewEngine(stm.WithConfig(config.Engine), stm.WithObserver(collector)),
	}, nil
}

// run calls op ops times from each worker and returns the combined errors
func (b *benchmark) run(ctx context.Context, op func(ctx context.Context, worker, i int) error) error {
	var mu sync.Mutex
	var errs error
	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < b.ops; i++ {
				if err := op(ctx, worker, i); err != nil {
					mu.Lock()
					errs = multierr.Append(errs, err)
					mu.Unlock()
					if errors.IsCanceled(err) || errors.IsTimeout(err) {
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
	return errs
}

// appendBench appends every operation's index to a shared list and checks none were lost
func appendBench(ctx context.Context, b *benchmark) (benchResult, error) {
	shared, err := list.NewBuilder[int]("bench").Engine(b.engine).Get(ctx)
	if err != nil {
		return benchResult{}, err
	}

	start := time.Now()
	errs := b.run(ctx, func(ctx context.Context, worker, i int) error {
		return shared.Append(ctx, worker*b.ops+i)
	})
	duration := time.Since(start)

	size, err := shared.Len(ctx)
	if err != nil {
		return benchResult{}, err
	}
	stats := b.collector.Stats()
	expected := int(stats.Commits)
	result := benchResult{
		Name:     "append",
		Ops:      b.workers * b.ops,
		Duration: duration,
		Stats:    stats,
		Check:    fmt.Sprintf("list length %d, committed appends %d", size, expected),
	}
	if size != expected {
		return result, errors.NewFault("list length %d does not match %d committed appends", size, expected)
	}
	return result, errs
}

// transferBench moves random amounts between counters and checks the total is conserved
func transferBench(ctx context.Context, b *benchmark, accounts int) (benchResult, error) {
	if accounts < 2 {
		return benchResult{}, errors.NewInvalid("at least two accounts are required")
	}
	const balance = 1000
	counters := make([]counter.Counter[int64], accounts)
	for i := range counters {
		c, err := counter.NewBuilder[int64](fmt.Sprintf("account-%d", i)).
			Engine(b.engine).
			Initial(balance).
			Get(ctx)
		if err != nil {
			return benchResult{}, err
		}
		counters[i] = c
	}

	start := time.Now()
	errs := b.run(ctx, func(ctx context.Context, worker, i int) error {
		r := rand.New(rand.NewSource(int64(worker*b.ops + i)))
		from := r.Intn(accounts)
		to := (from + 1 + r.Intn(accounts-1)) % accounts
		return counters[from].Transfer(ctx, counters[to], int64(r.Intn(100)))
	})
	duration := time.Since(start)

	cells := make([]stm.Object, accounts)
	for i, c := range counters {
		cells[i] = c.Object()
	}
	values, err := b.engine.Snapshot(ctx, cells...)
	if err != nil {
		return benchResult{}, err
	}
	var total int64
	for _, value := range values {
		total += value.(int64)
	}
	expected := int64(balance * accounts)
	result := benchResult{
		Name:     "transfer",
		Ops:      b.workers * b.ops,
		Duration: duration,
		Stats:    b.collector.Stats(),
		Check:    fmt.Sprintf("total %d, expected %d", total, expected),
	}
	if total != expected {
		return result, errors.NewFault("total %d does not match expected total %d", total, expected)
	}
	return result, errs
}

func runBenchAppendCommand(cmd *cobra.Command, args []string) {
	runBench(cmd, appendBench)
}

func runBenchTransferCommand(cmd *cobra.Command, args []string) {
	accounts, _ := cmd.Flags().GetInt("accounts")
	runBench(cmd, func(ctx context.Context, b *benchmark) (benchResult, error) {
		return transferBench(ctx, b, accounts)
	})
}

func runBench(cmd *cobra.Command, workload func(context.Context, *benchmark) (benchResult, error)) {
	c := getConfig()
	workers, _ := cmd.Flags().GetInt("workers")
	ops, _ := cmd.Flags().GetInt("ops")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	b, err := newBenchmark(c, workers, ops)
	if err != nil {
		ExitWithError(exitCode(err), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Info("Starting workload",
		logging.String("command", cmd.Name()),
		logging.Int("workers", workers),
		logging.Int("ops", ops))
	result, err := workload(ctx, b)
	fmt.Fprintln(os.Stdout, result)

	if viper.GetBool("metrics") {
		registry := prometheus.NewRegistry()
		if err := registry.Register(b.collector); err != nil {
			ExitWithError(ExitError, err)
		}
		if err := metrics.WriteText(os.Stdout, registry); err != nil {
			ExitWithError(ExitIO, err)
		}
	}

	if err != nil {
		ExitWithError(exitCode(err), err)
	}
	ExitWithSuccess()
}
