// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

const (
	// MetricPrefix prefixes every statsd metric sent by the hooks
	MetricPrefix = "sandbox.fs_hooks."

	metricNamespace = "sandbox"
	metricSubsystem = "fs_hooks"
)

type counter int

const (
	callsCounter counter = iota
	emittedCounter
	filteredCounter
	discardedCounter
	noContextCounter
	recoveredCounter

	counterCount
)

var counterNames = [counterCount]string{
	callsCounter:     "calls",
	emittedCounter:   "emitted",
	filteredCounter:  "filtered",
	discardedCounter: "discarded",
	noContextCounter: "no_context",
	recoveredCounter: "recovered_panics",
}

var counterHelp = [counterCount]string{
	callsCounter:     "Intercepted calls.",
	emittedCounter:   "Diagnostic records appended to the sink.",
	filteredCounter:  "Calls skipped by the object name filter.",
	discardedCounter: "Calls skipped by a discarded path pattern.",
	noContextCounter: "Calls without a diagnostic context.",
	recoveredCounter: "Panics recovered while observing a call.",
}

// StatsSnapshot is a point in time copy of the counters of an entry point
type StatsSnapshot struct {
	Calls           uint64
	Emitted         uint64
	Filtered        uint64
	Discarded       uint64
	NoContext       uint64
	RecoveredPanics uint64
}

// Stats counts what happens to intercepted calls, per entry point
type Stats struct {
	counters [entryPointCount][counterCount]*atomic.Uint64
	descs    [counterCount]*prometheus.Desc
}

// NewStats returns zeroed stats
func NewStats() *Stats {
	s := &Stats{}
	for ep := range s.counters {
		for c := range s.counters[ep] {
			s.counters[ep][c] = atomic.NewUint64(0)
		}
	}
	for c := range s.descs {
		s.descs[c] = prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, metricSubsystem, counterNames[c]+"_total"),
			counterHelp[c],
			[]string{"entry_point"},
			nil,
		)
	}
	return s
}

func (s *Stats) inc(ep EntryPoint, c counter) {
	s.counters[ep][c].Inc()
}

// Get returns the counters of an entry point
func (s *Stats) Get(ep EntryPoint) StatsSnapshot {
	c := &s.counters[ep]
	return StatsSnapshot{
		Calls:           c[callsCounter].Load(),
		Emitted:         c[emittedCounter].Load(),
		Filtered:        c[filteredCounter].Load(),
		Discarded:       c[discardedCounter].Load(),
		NoContext:       c[noContextCounter].Load(),
		RecoveredPanics: c[recoveredCounter].Load(),
	}
}

// SendStats sends every counter as a gauge tagged with its entry point
func (s *Stats) SendStats(client statsd.ClientInterface) error {
	for _, ep := range AllEntryPoints() {
		tags := []string{"entry_point:" + ep.String()}
		for c := counter(0); c < counterCount; c++ {
			value := s.counters[ep][c].Load()
			if err := client.Gauge(MetricPrefix+counterNames[c], float64(value), tags, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Describe implements prometheus.Collector
func (s *Stats) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range s.descs {
		ch <- desc
	}
}

// Collect implements prometheus.Collector
func (s *Stats) Collect(ch chan<- prometheus.Metric) {
	for _, ep := range AllEntryPoints() {
		for c := counter(0); c < counterCount; c++ {
			ch <- prometheus.MustNewConstMetric(
				s.descs[c],
				prometheus.CounterValue,
				float64(s.counters[ep][c].Load()),
				ep.String(),
			)
		}
	}
}
