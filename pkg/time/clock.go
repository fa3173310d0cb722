// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package time

import (
	"time"

	"go.uber.org/atomic"
)

// Timestamp is a point on a clock's timeline
type Timestamp uint64

// Before returns whether t happened before u
func (t Timestamp) Before(u Timestamp) bool {
	return t < u
}

// After returns whether t happened after u
func (t Timestamp) After(u Timestamp) bool {
	return t > u
}

// Clock issues timestamps. Every timestamp returned by Increment or Update is strictly
// greater than all timestamps previously issued by the same clock.
type Clock interface {
	// Get returns the most recently issued timestamp
	Get() Timestamp
	// Increment issues a new timestamp
	Increment() Timestamp
	// Update advances the clock past the given timestamp and issues a new timestamp
	Update(timestamp Timestamp) Timestamp
}

// NewLogicalClock creates a new logical clock starting at zero
func NewLogicalClock() Clock {
	return &LogicalClock{}
}

// LogicalClock is a counter clock
type LogicalClock struct {
	value atomic.Uint64
}

func (c *LogicalClock) Get() Timestamp {
	return Timestamp(c.value.Load())
}

func (c *LogicalClock) Increment() Timestamp {
	return Timestamp(c.value.Inc())
}

func (c *LogicalClock) Update(timestamp Timestamp) Timestamp {
	for {
		current := c.value.Load()
		next := current + 1
		if uint64(timestamp) >= next {
			next = uint64(timestamp) + 1
		}
		if c.value.CompareAndSwap(current, next) {
			return Timestamp(next)
		}
	}
}

// NewWallClock creates a new wall clock
func NewWallClock() Clock {
	return newWallClock(func() uint64 {
		return uint64(time.Now().UnixNano())
	})
}

func newWallClock(now func() uint64) *WallClock {
	c := &WallClock{now: now}
	c.value.Store(now())
	return c
}

// WallClock issues nanosecond wall clock timestamps. When the system clock stalls or steps
// backwards the clock keeps counting from the last issued timestamp.
type WallClock struct {
	value atomic.Uint64
	now   func() uint64
}

func (c *WallClock) Get() Timestamp {
	return Timestamp(c.value.Load())
}

func (c *WallClock) Increment() Timestamp {
	return c.Update(0)
}

func (c *WallClock) Update(timestamp Timestamp) Timestamp {
	for {
		current := c.value.Load()
		next := c.now()
		if next <= current {
			next = current + 1
		}
		if uint64(timestamp) >= next {
			next = uint64(timestamp) + 1
		}
		if c.value.CompareAndSwap(current, next) {
			return Timestamp(next)
		}
	}
}

var defaultClock = NewWallClock()

// DefaultClock returns the process-wide wall clock
func DefaultClock() Clock {
	return defaultClock
}

// Now issues a timestamp from the process-wide wall clock
func Now() Timestamp {
	return defaultClock.Increment()
}
