// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/logging"
	"github.com/tram-stm/go-tram/pkg/stream"
	tramtime "github.com/tram-stm/go-tram/pkg/time"
	"go.uber.org/atomic"
)

func appendInt(i int) WriteFunc {
	return Atomic(func(l collection.List[int]) (collection.List[int], error) {
		return l.Append(i), nil
	})
}

func TestConcurrentAppends(t *testing.T) {
	logging.SetLevel(logging.DebugLevel)
	defer logging.SetLevel(logging.InfoLevel)

	engine := NewEngine(WithMaxRetries(10000))
	shared := NewCell(collection.List[int]{})
	const workers = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			time.Sleep(time.Duration(rand.Intn(1000)) * time.Nanosecond)
			result, err := engine.Transaction(context.Background(), []Object{shared}, appendInt(i))
			assert.NoError(t, err)
			assert.True(t, result.Committed())
		}(i)
	}
	wg.Wait()

	values := shared.Value()
	assert.Equal(t, workers, values.Len())
	seen := make(map[int]bool)
	for _, value := range values {
		assert.False(t, seen[value], "duplicate value %d", value)
		seen[value] = true
	}
	assert.Len(t, seen, workers)
}

func TestCommitAdvancesVersion(t *testing.T) {
	cell := NewCell(0)
	increment := Atomic(func(i int) (int, error) {
		return i + 1, nil
	})

	version := cell.Version()
	for i := 0; i < 10; i++ {
		result, err := Transaction(context.Background(), []Object{cell}, increment)
		require.NoError(t, err)
		assert.Equal(t, Committed, result.Status)
		assert.Equal(t, 1, result.Attempts)
		assert.True(t, cell.Version() > version)
		version = cell.Version()
	}
	assert.Equal(t, 10, cell.Value())

	result, err := Transaction(context.Background(), []Object{cell}, Nada)
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, 10, cell.Value())
	assert.True(t, cell.Version() > version)

	version = cell.Version()
	result, err = Transaction(context.Background(), []Object{cell}, func(cells []Object, values []any) stream.Stream[Write] {
		return stream.Empty[Write]()
	})
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, version, cell.Version())
}

func TestDisjointTransactionsDoNotBlock(t *testing.T) {
	engine := NewEngine(WithBackoff(Backoff{Initial: time.Microsecond, Max: time.Millisecond}))
	a := NewCell(0)
	b := NewCell(0)

	require.NoError(t, a.acquire(context.Background(), Backoff{}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, err := engine.Transaction(ctx, []Object{b}, Atomic(func(i int) (int, error) {
		return i + 1, nil
	}))
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, 1, b.Value())

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = engine.Transaction(ctx, []Object{a, b}, Atomic(func(i int) (int, error) {
		return i + 1, nil
	}))
	assert.True(t, errors.IsTimeout(err))
	assert.False(t, b.Locked())
	assert.Equal(t, 0, a.Value())
	assert.Equal(t, 1, b.Value())

	a.release()
	result, err = engine.Transaction(context.Background(), []Object{a, b}, Atomic(func(i int) (int, error) {
		return i + 1, nil
	}))
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, 1, a.Value())
	assert.Equal(t, 2, b.Value())
	assert.False(t, a.Locked())
	assert.False(t, b.Locked())
}

func TestOverlappingTransactionsDoNotDeadlock(t *testing.T) {
	engine := NewEngine(WithMaxRetries(100000))
	cells := []*Cell[int]{NewCell(0), NewCell(0), NewCell(0), NewCell(0)}
	increment := Atomic(func(i int) (int, error) {
		return i + 1, nil
	})

	const workers, transactions = 8, 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < transactions; j++ {
				// Participants are listed in different orders by different workers
				x, y := cells[(i+j)%len(cells)], cells[(i+j+1)%len(cells)]
				if i%2 == 0 {
					x, y = y, x
				}
				result, err := engine.Transaction(context.Background(), []Object{x, y}, increment)
				assert.NoError(t, err)
				assert.True(t, result.Committed())
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Minute):
		t.Fatal("transactions deadlocked")
	}

	total := 0
	for _, cell := range cells {
		total += cell.Value()
		assert.False(t, cell.Locked())
	}
	assert.Equal(t, workers*transactions*2, total)
}

func TestExhaustedTransactionLeavesCellsUnchanged(t *testing.T) {
	engine := NewEngine()
	contended := NewCell(0)
	bystander := NewCell("unchanged")
	bystanderState := bystander.Get()

	competitor := Atomic(func(i int) (int, error) {
		return i + 1, nil
	})
	write := func(cells []Object, values []any) stream.Stream[Write] {
		// Every attempt is invalidated by a commit that lands after its reads
		_, err := engine.Transaction(context.Background(), []Object{contended}, competitor)
		if err != nil {
			return stream.Error[Write](err)
		}
		return stream.Of(
			Write{Cell: contended, Value: -1},
			Write{Cell: bystander, Value: "changed"})
	}

	result, err := engine.Transaction(context.Background(), []Object{contended, bystander}, write, WithRetries(5))
	require.NoError(t, err)
	assert.Equal(t, Abandoned, result.Status)
	assert.False(t, result.Committed())
	assert.Equal(t, 5, result.Attempts)
	assert.Equal(t, 5, contended.Value())
	assert.Equal(t, bystanderState, bystander.Get())
	assert.False(t, contended.Locked())
	assert.False(t, bystander.Locked())

	strict := NewEngine(WithStrict())
	result, err = strict.Transaction(context.Background(), []Object{contended, bystander}, write, WithRetries(3))
	assert.True(t, errors.IsAborted(err))
	assert.Equal(t, Abandoned, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, bystanderState, bystander.Get())

	result, err = engine.Transaction(context.Background(), []Object{contended}, competitor, WithRetries(0))
	assert.NoError(t, err)
	assert.Equal(t, Abandoned, result.Status)
	assert.Equal(t, 0, result.Attempts)
}

func TestWriteErrorsAreNotRetried(t *testing.T) {
	cell := NewCell(collection.NewList(1))
	calls := 0
	pop := func(cells []Object, values []any) stream.Stream[Write] {
		calls++
		return Each(cells, values, func(cell Object, value any) (any, error) {
			_, rest, err := value.(collection.List[int]).Pop(5)
			return rest, err
		})
	}
	version := cell.Version()
	result, err := Transaction(context.Background(), []Object{cell}, pop)
	assert.True(t, errors.IsOutOfRange(err))
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, calls)
	assert.Equal(t, version, cell.Version())
	assert.False(t, cell.Locked())
}

func TestInvalidTransactions(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	ctx := context.Background()

	_, err := Transaction(ctx, nil, Nada)
	assert.True(t, errors.IsInvalid(err))

	_, err = Transaction(ctx, []Object{a, b, a}, Nada)
	assert.True(t, errors.IsInvalid(err))

	_, err = Transaction(ctx, []Object{a, nil}, Nada)
	assert.True(t, errors.IsInvalid(err))

	_, err = Transaction(ctx, []Object{a}, Nada, WithRetries(-1))
	assert.True(t, errors.IsInvalid(err))

	_, err = Transaction(ctx, []Object{a}, func(cells []Object, values []any) stream.Stream[Write] {
		return stream.Of(Write{Cell: b, Value: 3})
	})
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, 2, b.Value())

	_, err = Transaction(ctx, []Object{a}, func(cells []Object, values []any) stream.Stream[Write] {
		return stream.Of(Write{Cell: a, Value: "one"})
	})
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, 1, a.Value())

	_, err = Transaction(ctx, []Object{a}, Nada, WithReader(func(reader Reader, cells []Object) ([]any, error) {
		return nil, nil
	}))
	assert.True(t, errors.IsInvalid(err))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Transaction(canceled, []Object{a}, Nada)
	assert.True(t, errors.IsCanceled(err))
}

func TestClockMismatchIsFatal(t *testing.T) {
	cell := NewCell(1)
	engine := NewEngine(WithClock(tramtime.NewLogicalClock()))
	state := cell.Get()
	result, err := engine.Transaction(context.Background(), []Object{cell}, Atomic(func(i int) (int, error) {
		return i + 1, nil
	}))
	assert.True(t, errors.IsInvalidVersion(err))
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, state, cell.Get())
}

func TestCustomReader(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	reads := 0
	reader := func(reader Reader, cells []Object) ([]any, error) {
		reads++
		values, err := ReadAll(reader, cells)
		if err != nil {
			return nil, err
		}
		values[0] = values[0].(int) * 100
		return values, nil
	}
	result, err := Transaction(context.Background(), []Object{a, b}, Nada, WithReader(reader))
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, 1, reads)
	assert.Equal(t, 100, a.Value())
	assert.Equal(t, 2, b.Value())
}

func TestLazyWrites(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	emitted := 0
	write := func(cells []Object, values []any) stream.Stream[Write] {
		return stream.Func[Write](func() (Write, error) {
			if emitted == 1 {
				return Write{}, io.EOF
			}
			emitted++
			return Write{Cell: cells[1], Value: values[1].(int) + values[0].(int)}, nil
		})
	}
	_, err := Transaction(context.Background(), []Object{a, b}, write)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Value())
	assert.Equal(t, 3, b.Value())
}

type countingObserver struct {
	committed  atomic.Int64
	attempts   atomic.Int64
	conflicted atomic.Int64
	exhausted  atomic.Int64
	failed     atomic.Int64
}

func (o *countingObserver) Committed(attempts int) {
	o.committed.Inc()
	o.attempts.Add(int64(attempts))
}

func (o *countingObserver) Conflicted() {
	o.conflicted.Inc()
}

func (o *countingObserver) Exhausted() {
	o.exhausted.Inc()
}

func (o *countingObserver) Failed(error) {
	o.failed.Inc()
}

func TestObserver(t *testing.T) {
	observer := &countingObserver{}
	engine := NewEngine(WithObserver(observer))
	cell := NewCell(0)
	increment := Atomic(func(i int) (int, error) {
		return i + 1, nil
	})

	_, err := engine.Transaction(context.Background(), []Object{cell}, increment)
	require.NoError(t, err)

	conflicting := func(cells []Object, values []any) stream.Stream[Write] {
		_, err := engine.Transaction(context.Background(), []Object{cell}, increment)
		if err != nil {
			return stream.Error[Write](err)
		}
		return stream.Empty[Write]()
	}
	_, err = engine.Transaction(context.Background(), []Object{cell}, conflicting, WithRetries(2))
	require.NoError(t, err)

	_, err = engine.Transaction(context.Background(), []Object{cell}, func(cells []Object, values []any) stream.Stream[Write] {
		return stream.Error[Write](errors.NewNotFound("missing"))
	})
	assert.True(t, errors.IsNotFound(err))

	assert.Equal(t, int64(3), observer.committed.Load())
	assert.Equal(t, int64(3), observer.attempts.Load())
	assert.Equal(t, int64(2), observer.conflicted.Load())
	assert.Equal(t, int64(1), observer.exhausted.Load())
	assert.Equal(t, int64(1), observer.failed.Load())
}

func TestEngineConfig(t *testing.T) {
	engine := NewEngine(WithMaxRetries(1), WithObserver(nil))
	cell := NewCell(0)
	write := func(cells []Object, values []any) stream.Stream[Write] {
		_, err := Transaction(context.Background(), []Object{cell}, Nada)
		if err != nil {
			return stream.Error[Write](err)
		}
		return stream.Empty[Write]()
	}
	result, err := engine.Transaction(context.Background(), []Object{cell}, write)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "Abandoned", result.Status.String())
	assert.Equal(t, "Committed", Committed.String())
}
