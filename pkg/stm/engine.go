// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"context"

	"github.com/google/uuid"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/logging"
	"github.com/tram-stm/go-tram/pkg/stream"
	tramtime "github.com/tram-stm/go-tram/pkg/time"
	"golang.org/x/exp/slices"
)

var log = logging.GetLogger("stm")

// Status is the outcome of a transaction
type Status int

const (
	// Committed indicates the transaction's writes were applied
	Committed Status = iota
	// Abandoned indicates every attempt was invalidated and nothing was applied
	Abandoned
)

func (s Status) String() string {
	switch s {
	case Committed:
		return "Committed"
	case Abandoned:
		return "Abandoned"
	default:
		return "Unknown"
	}
}

// Result describes a finished transaction
type Result struct {
	// ID identifies the transaction in logs
	ID uuid.UUID
	// Status is the outcome
	Status Status
	// Attempts is the number of attempts made
	Attempts int
}

// Committed returns whether the transaction's writes were applied
func (r Result) Committed() bool {
	return r.Status == Committed
}

// NewEngine creates a new transaction engine
func NewEngine(opts ...Option) *Engine {
	options := defaultOptions()
	for _, opt := range opts {
		opt.apply(&options)
	}
	if options.Observer == nil {
		options.Observer = nopObserver{}
	}
	return &Engine{
		options: options,
	}
}

// Engine runs optimistic transactions over cells
type Engine struct {
	options Options
}

// Clock returns the clock the engine stamps writes with. Cells written by the engine should be
// created with the same clock.
func (e *Engine) Clock() tramtime.Clock {
	return e.options.Clock
}

// Transaction atomically replaces the values of the given cells with the writes computed from
// their current values. Every attempt reads the participants without locking, computes the
// writes, locks the participants in ID order, and commits only if no participant changed since
// it was read; otherwise it retries.
//
// When every attempt is invalidated the transaction is abandoned: the returned Result has
// status Abandoned and the error is nil unless the engine is strict. Errors from the write
// computation, misuse and context cancellation stop the transaction without retrying.
func (e *Engine) Transaction(ctx context.Context, cells []Object, write WriteFunc, opts ...TransactionOption) (Result, error) {
	options := transactionOptions{
		retries: e.options.MaxRetries,
		reader:  ReadAll,
	}
	for _, opt := range opts {
		opt.beforeTransaction(&options)
	}
	if write == nil {
		write = Nada
	}

	result := Result{ID: uuid.New()}
	if options.retries < 0 {
		return result, errors.NewInvalid("retries must not be negative")
	}
	order, err := lockOrder(cells)
	if err != nil {
		return result, err
	}

	log := log.With(logging.Stringer("txn", result.ID))
	for retries := options.retries; retries > 0; retries-- {
		if err := ctx.Err(); err != nil {
			e.options.Observer.Failed(err)
			return result, errors.FromContext(err)
		}
		result.Attempts++
		txn := NewLog(e.options.Clock, cells)
		err := e.attempt(ctx, txn, cells, order, write, options.reader)
		if err == nil {
			result.Status = Committed
			e.options.Observer.Committed(result.Attempts)
			return result, nil
		}
		if !errors.IsRetryable(err) {
			log.Debug("Transaction failed", logging.Stringer("state", txn.State()), logging.Error(err))
			e.options.Observer.Failed(err)
			return result, err
		}
		log.Debug("Attempt invalidated", logging.Int("attempt", result.Attempts), logging.Error(err))
		e.options.Observer.Conflicted()
	}

	result.Status = Abandoned
	e.options.Observer.Exhausted()
	if e.options.Strict {
		return result, errors.NewAborted("transaction %s abandoned after %d attempts", result.ID, result.Attempts)
	}
	log.Debug("Transaction abandoned", logging.Int("attempts", result.Attempts))
	return result, nil
}

func (e *Engine) attempt(ctx context.Context, txn *Log, cells, order []Object, write WriteFunc, read ReadFunc) error {
	txn.state = Reading
	values, err := read(txn, cells)
	if err != nil {
		return err
	}
	if len(values) != len(cells) {
		return errors.NewInvalid("read %d values for %d cells", len(values), len(cells))
	}

	txn.state = ComputingWrites
	writes := write(cells, values)
	if writes == nil {
		writes = stream.Empty[Write]()
	}
	if err := stream.ForEach[Write](writes, txn.Write); err != nil {
		return err
	}

	txn.state = Locking
	locked := 0
	defer func() {
		for i := locked - 1; i >= 0; i-- {
			order[i].release()
		}
	}()
	for _, cell := range order {
		if err := cell.acquire(ctx, e.options.Backoff); err != nil {
			return err
		}
		locked++
	}

	txn.state = Validating
	if err := txn.validate(); err != nil {
		txn.state = Aborting
		return err
	}

	txn.state = Committing
	if err := txn.commit(); err != nil {
		txn.state = Aborting
		return err
	}
	txn.state = Done
	return nil
}

// lockOrder returns the participants sorted by ID
func lockOrder(cells []Object) ([]Object, error) {
	if len(cells) == 0 {
		return nil, errors.NewInvalid("a transaction needs at least one cell")
	}
	order := make([]Object, len(cells))
	copy(order, cells)
	for _, cell := range order {
		if cell == nil {
			return nil, errors.NewInvalid("nil cell")
		}
	}
	slices.SortFunc(order, func(a, b Object) bool {
		return a.ID() < b.ID()
	})
	for i := 1; i < len(order); i++ {
		if order[i].ID() == order[i-1].ID() {
			return nil, errors.NewInvalid("cell %d appears more than once", order[i].ID())
		}
	}
	return order, nil
}

var defaultEngine = NewEngine()

// DefaultEngine returns the engine used by the package-level functions
func DefaultEngine() *Engine {
	return defaultEngine
}

// Transaction runs a transaction on the default engine
func Transaction(ctx context.Context, cells []Object, write WriteFunc, opts ...TransactionOption) (Result, error) {
	return defaultEngine.Transaction(ctx, cells, write, opts...)
}

// Snapshot returns the values of the given cells as of a single point in time. The values are
// read by a transaction that proposes no writes, so they are validated like any other reads.
func (e *Engine) Snapshot(ctx context.Context, cells ...Object) ([]any, error) {
	var snapshot []any
	result, err := e.Transaction(ctx, cells, func(cells []Object, values []any) stream.Stream[Write] {
		snapshot = values
		return stream.Empty[Write]()
	})
	if err != nil {
		return nil, err
	}
	if !result.Committed() {
		return nil, errors.NewAborted("snapshot abandoned after %d attempts", result.Attempts)
	}
	return snapshot, nil
}
