// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/stm"
	"go.uber.org/atomic"
)

const namespace = "tram"

// Stats is a snapshot of transaction outcomes
type Stats struct {
	Commits   int64
	Attempts  int64
	Conflicts int64
	Exhausted int64
	Failures  int64
}

// NewCollector creates a new transaction metrics collector
func NewCollector() *Collector {
	return &Collector{
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "commits_total",
			Help:      "Number of committed transactions.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "conflicts_total",
			Help:      "Number of attempts invalidated by concurrent commits.",
		}),
		exhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "exhausted_total",
			Help:      "Number of transactions abandoned after running out of attempts.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "failures_total",
			Help:      "Number of transactions stopped by an error.",
		}, []string{"type"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "attempts",
			Help:      "Attempts needed by committed transactions.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// Collector records transaction outcomes as Prometheus metrics
type Collector struct {
	commits   prometheus.Counter
	conflicts prometheus.Counter
	exhausted prometheus.Counter
	failures  *prometheus.CounterVec
	attempts  prometheus.Histogram
	stats     struct {
		commits   atomic.Int64
		attempts  atomic.Int64
		conflicts atomic.Int64
		exhausted atomic.Int64
		failures  atomic.Int64
	}
}

func (c *Collector) Committed(attempts int) {
	c.commits.Inc()
	c.attempts.Observe(float64(attempts))
	c.stats.commits.Inc()
	c.stats.attempts.Add(int64(attempts))
}

func (c *Collector) Conflicted() {
	c.conflicts.Inc()
	c.stats.conflicts.Inc()
}

func (c *Collector) Exhausted() {
	c.exhausted.Inc()
	c.stats.exhausted.Inc()
}

func (c *Collector) Failed(err error) {
	c.failures.WithLabelValues(errors.TypeOf(err).String()).Inc()
	c.stats.failures.Inc()
}

// Stats returns the outcome counts recorded so far
func (c *Collector) Stats() Stats {
	return Stats{
		Commits:   c.stats.commits.Load(),
		Attempts:  c.stats.attempts.Load(),
		Conflicts: c.stats.conflicts.Load(),
		Exhausted: c.stats.exhausted.Load(),
		Failures:  c.stats.failures.Load(),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.commits.Describe(ch)
	c.conflicts.Describe(ch)
	c.exhausted.Describe(ch)
	c.failures.Describe(ch)
	c.attempts.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.commits.Collect(ch)
	c.conflicts.Collect(ch)
	c.exhausted.Collect(ch)
	c.failures.Collect(ch)
	c.attempts.Collect(ch)
}

// WriteText writes the metrics gathered by the given gatherer in the Prometheus text format
func WriteText(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}

var _ stm.Observer = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)
