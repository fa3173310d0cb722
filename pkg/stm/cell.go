// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"context"
	"fmt"
	"time"

	"github.com/tram-stm/go-tram/pkg/errors"
	tramtime "github.com/tram-stm/go-tram/pkg/time"
	"go.uber.org/atomic"
)

// Object is a transactional cell of any value type. Objects are only mutated by an Engine.
type Object interface {
	// ID returns the cell's position in the global lock order
	ID() ID
	// Version returns the version of the last committed value
	Version() Version

	read() (any, Version)
	acquire(ctx context.Context, backoff Backoff) error
	release()
	check(value any, version Version) error
	commit(value any, version Version) error
}

// NewCell creates a new cell stamped by the process-wide clock
func NewCell[V any](value V) *Cell[V] {
	return NewCellWithClock[V](value, tramtime.DefaultClock())
}

// NewCellWithClock creates a new cell stamped by the given clock
func NewCellWithClock[V any](value V, clock tramtime.Clock) *Cell[V] {
	c := &Cell[V]{
		id: nextID(),
	}
	c.state.Store(&Versioned[V]{
		Version: Version(clock.Increment()),
		Value:   value,
	})
	return c
}

// Cell is a shared, versioned value
type Cell[V any] struct {
	id     ID
	state  atomic.Pointer[Versioned[V]]
	locked atomic.Bool
}

func (c *Cell[V]) ID() ID {
	return c.id
}

// Get returns the last committed value and its version without blocking
func (c *Cell[V]) Get() Versioned[V] {
	return *c.state.Load()
}

// Value returns the last committed value
func (c *Cell[V]) Value() V {
	return c.state.Load().Value
}

func (c *Cell[V]) Version() Version {
	return c.state.Load().Version
}

// Locked returns whether a transaction currently holds the cell's lock
func (c *Cell[V]) Locked() bool {
	return c.locked.Load()
}

func (c *Cell[V]) String() string {
	return fmt.Sprintf("Cell(%v)", c.Value())
}

func (c *Cell[V]) read() (any, Version) {
	state := c.state.Load()
	return state.Value, state.Version
}

func (c *Cell[V]) acquire(ctx context.Context, backoff Backoff) error {
	wait := backoff.Initial
	for !c.locked.CompareAndSwap(false, true) {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.FromContext(ctx.Err())
		case <-timer.C:
		}
		wait = backoff.next(wait)
	}
	return nil
}

func (c *Cell[V]) release() {
	c.locked.Store(false)
}

func (c *Cell[V]) check(value any, version Version) error {
	if _, ok := value.(V); !ok {
		var zero V
		if value != nil || any(zero) != nil {
			return errors.NewInvalid("cannot store %T in cell of %T", value, zero)
		}
	}
	if current := c.Version(); version < current {
		return errors.NewInvalidVersion("cannot overwrite version %d with older version %d", current, version)
	}
	return nil
}

// commit must only be called while holding the cell's lock
func (c *Cell[V]) commit(value any, version Version) error {
	if err := c.check(value, version); err != nil {
		return err
	}
	v, _ := value.(V)
	c.state.Store(&Versioned[V]{
		Version: version,
		Value:   v,
	})
	return nil
}

// Backoff configures polling of a locked cell
type Backoff struct {
	// Initial is the first wait interval
	Initial time.Duration
	// Max caps the wait interval; zero means unbounded
	Max time.Duration
}

func (b Backoff) next(wait time.Duration) time.Duration {
	if wait <= 0 {
		return b.Initial
	}
	next := wait * 2
	if next < wait {
		return wait
	}
	if b.Max > 0 && next > b.Max {
		return b.Max
	}
	return next
}
