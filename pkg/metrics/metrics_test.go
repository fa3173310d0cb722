// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/stm"
	"github.com/tram-stm/go-tram/pkg/stream"
)

func TestCollector(t *testing.T) {
	collector := NewCollector()
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(collector))

	engine := stm.NewEngine(stm.WithObserver(collector))
	cell := stm.NewCell(0)
	increment := stm.Atomic(func(i int) (int, error) {
		return i + 1, nil
	})

	_, err := engine.Transaction(context.Background(), []stm.Object{cell}, increment)
	require.NoError(t, err)

	conflicting := func(cells []stm.Object, values []any) stream.Stream[stm.Write] {
		_, err := stm.Transaction(context.Background(), []stm.Object{cell}, increment)
		if err != nil {
			return stream.Error[stm.Write](err)
		}
		return stream.Empty[stm.Write]()
	}
	_, err = engine.Transaction(context.Background(), []stm.Object{cell}, conflicting, stm.WithRetries(3))
	require.NoError(t, err)

	_, err = engine.Transaction(context.Background(), []stm.Object{cell}, func(cells []stm.Object, values []any) stream.Stream[stm.Write] {
		return stream.Error[stm.Write](errors.NewOutOfRange("index 3"))
	})
	assert.True(t, errors.IsOutOfRange(err))

	assert.Equal(t, Stats{
		Commits:   1,
		Attempts:  1,
		Conflicts: 3,
		Exhausted: 1,
		Failures:  1,
	}, collector.Stats())
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.commits))
	assert.Equal(t, float64(3), testutil.ToFloat64(collector.conflicts))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.exhausted))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.failures.WithLabelValues("OutOfRange")))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, registry))
	assert.Contains(t, buf.String(), "tram_transaction_commits_total 1")
	assert.Contains(t, buf.String(), `tram_transaction_failures_total{type="OutOfRange"} 1`)
}
