// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package time

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogicalClock(t *testing.T) {
	clock := NewLogicalClock()
	assert.Equal(t, Timestamp(0), clock.Get())
	assert.Equal(t, Timestamp(1), clock.Increment())
	assert.Equal(t, Timestamp(2), clock.Increment())
	assert.Equal(t, Timestamp(11), clock.Update(10))
	assert.Equal(t, Timestamp(12), clock.Update(5))
	assert.Equal(t, Timestamp(12), clock.Get())
}

func TestWallClockNeverGoesBackwards(t *testing.T) {
	now := uint64(100)
	clock := newWallClock(func() uint64 {
		return now
	})
	assert.Equal(t, Timestamp(100), clock.Get())
	assert.Equal(t, Timestamp(101), clock.Increment())

	now = 50
	assert.Equal(t, Timestamp(102), clock.Increment())

	now = 500
	assert.Equal(t, Timestamp(500), clock.Increment())
	assert.Equal(t, Timestamp(1001), clock.Update(1000))
	assert.True(t, clock.Get().After(500))
	assert.True(t, Timestamp(500).Before(clock.Get()))
}

func TestWallClockConcurrentIncrements(t *testing.T) {
	clock := NewWallClock()
	const workers, increments = 8, 1000

	results := make([][]Timestamp, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				results[i] = append(results[i], clock.Increment())
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[Timestamp]bool)
	for _, timestamps := range results {
		for j, ts := range timestamps {
			assert.False(t, seen[ts], "duplicate timestamp %d", ts)
			seen[ts] = true
			if j > 0 {
				assert.True(t, ts.After(timestamps[j-1]))
			}
		}
	}
	assert.Len(t, seen, workers*increments)
}
