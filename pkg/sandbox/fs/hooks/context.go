// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// Sink receives the diagnostic records. It must be safe for concurrent use
// and must not block for long.
type Sink interface {
	AddToLogQueue(level log.LogLevel, message string)
}

// ContextResolver hands out the sink for the current call. It returns false
// when no sink is available.
type ContextResolver interface {
	Resolve() (Sink, bool)
}

// ContextResolverFunc adapts a function to ContextResolver
type ContextResolverFunc func() (Sink, bool)

// Resolve implements ContextResolver
func (f ContextResolverFunc) Resolve() (Sink, bool) {
	return f()
}

type staticContext struct {
	sink Sink
}

func (c staticContext) Resolve() (Sink, bool) {
	return c.sink, c.sink != nil
}

// StaticContext returns a ContextResolver always handing out sink
func StaticContext(sink Sink) ContextResolver {
	return staticContext{sink: sink}
}

// resolveContext asks r for a sink. Failures, including panics, yield no
// sink.
func resolveContext(r ContextResolver) (sink Sink, panicked bool) {
	if r == nil {
		return nil, false
	}

	defer func() {
		if recover() != nil {
			sink, panicked = nil, true
		}
	}()

	s, ok := r.Resolve()
	if !ok || s == nil {
		return nil, false
	}
	return s, false
}
