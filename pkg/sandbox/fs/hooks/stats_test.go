// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"errors"
	"strings"
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gauge struct {
	name  string
	value float64
	tags  []string
}

type statsdRecorder struct {
	statsd.NoOpClient
	gauges []gauge
	err    error
}

func (r *statsdRecorder) Gauge(name string, value float64, tags []string, _ float64) error {
	if r.err != nil {
		return r.err
	}
	r.gauges = append(r.gauges, gauge{name: name, value: value, tags: tags})
	return nil
}

func TestSendStats(t *testing.T) {
	s := NewStats()
	s.inc(OpenFile, callsCounter)
	s.inc(OpenFile, callsCounter)
	s.inc(OpenFile, emittedCounter)

	client := &statsdRecorder{}
	require.NoError(t, s.SendStats(client))
	assert.Len(t, client.gauges, int(entryPointCount)*int(counterCount))

	found := map[string]float64{}
	for _, g := range client.gauges {
		if assert.Len(t, g.tags, 1) && g.tags[0] == "entry_point:NtOpenFile" {
			found[g.name] = g.value
		}
	}
	assert.Equal(t, map[string]float64{
		"sandbox.fs_hooks.calls":            2,
		"sandbox.fs_hooks.emitted":          1,
		"sandbox.fs_hooks.filtered":         0,
		"sandbox.fs_hooks.discarded":        0,
		"sandbox.fs_hooks.no_context":       0,
		"sandbox.fs_hooks.recovered_panics": 0,
	}, found)
}

func TestSendStatsError(t *testing.T) {
	client := &statsdRecorder{err: errors.New("closed")}
	assert.EqualError(t, NewStats().SendStats(client), "closed")
}

func TestCollector(t *testing.T) {
	s := NewStats()
	s.inc(DeleteFile, emittedCounter)
	s.inc(DeleteFile, emittedCounter)
	s.inc(OpenDirectoryObject, emittedCounter)

	assert.Equal(t, int(entryPointCount)*int(counterCount), testutil.CollectAndCount(s))

	expected := `
# HELP sandbox_fs_hooks_emitted_total Diagnostic records appended to the sink.
# TYPE sandbox_fs_hooks_emitted_total counter
sandbox_fs_hooks_emitted_total{entry_point="NtCreateFile"} 0
sandbox_fs_hooks_emitted_total{entry_point="NtDeleteFile"} 2
sandbox_fs_hooks_emitted_total{entry_point="NtOpenDirectoryObject"} 1
sandbox_fs_hooks_emitted_total{entry_point="NtOpenFile"} 0
sandbox_fs_hooks_emitted_total{entry_point="NtOpenSymbolicLinkObject"} 0
sandbox_fs_hooks_emitted_total{entry_point="NtQueryAttributesFile"} 0
sandbox_fs_hooks_emitted_total{entry_point="NtQueryFullAttributesFile"} 0
`
	assert.NoError(t, testutil.CollectAndCompare(s, strings.NewReader(expected), "sandbox_fs_hooks_emitted_total"))
}
