// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package diagnostics holds the in-process queue receiving the records
// emitted by the filesystem hooks
package diagnostics

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// Entry is a queued diagnostic line
type Entry struct {
	Time    time.Time
	Level   log.LogLevel
	Message string
}

// Queue is a bounded log queue safe for concurrent use. Appending never
// blocks: lines arriving while the queue is full are dropped and counted.
type Queue struct {
	entries chan Entry
	dropped *atomic.Uint64
}

// NewQueue returns a queue holding up to size entries
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		entries: make(chan Entry, size),
		dropped: atomic.NewUint64(0),
	}
}

// AddToLogQueue appends a line to the queue
func (q *Queue) AddToLogQueue(level log.LogLevel, message string) {
	select {
	case q.entries <- Entry{Time: time.Now(), Level: level, Message: message}:
	default:
		q.dropped.Inc()
	}
}

// Dropped returns the number of lines lost because the queue was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Len returns the number of queued lines
func (q *Queue) Len() int {
	return len(q.entries)
}

// Drain removes and returns every queued line
func (q *Queue) Drain() []Entry {
	var out []Entry
	for {
		select {
		case e := <-q.entries:
			out = append(out, e)
		default:
			return out
		}
	}
}

// Forward writes queued lines to the process logger until ctx is done, then
// writes whatever is left
func (q *Queue) Forward(ctx context.Context) {
	for {
		select {
		case e := <-q.entries:
			log.Log(e.Level, e.Message)
		case <-ctx.Done():
			for _, e := range q.Drain() {
				log.Log(e.Level, e.Message)
			}
			if dropped := q.Dropped(); dropped > 0 {
				log.Warnf("%d diagnostic lines dropped", dropped) //nolint:errcheck
			}
			return
		}
	}
}
