// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package hooks implements the intercepts of the ntdll filesystem entry
// points. Every intercept passes the call through unchanged and records one
// diagnostic line describing it.
package hooks

import (
	"github.com/pkg/errors"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/resolver"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// DefaultFilterPrefix is the prefix names must start with to be recorded by
// NtCreateFile and NtQueryAttributesFile
const DefaultFilterPrefix = "D"

// PathResolver derives the paths of a record
type PathResolver interface {
	Resolve(oa *native.ObjectAttributes) resolver.Paths
}

// Opts holds the Handler options
type Opts struct {
	// FilterPrefix is matched against the unprefixed object name of
	// NtCreateFile and NtQueryAttributesFile calls
	FilterPrefix string
	// DiscardedPaths are glob patterns on the OS path of calls not to record
	DiscardedPaths []string
	// Disabled entry points are passed through without being observed
	Disabled []EntryPoint
}

// Handler holds the intercepts. It implements NativeAPI itself, so handlers
// can be stacked.
type Handler struct {
	api          NativeAPI
	contexts     ContextResolver
	paths        PathResolver
	filterPrefix string
	discarders   discarders
	disabled     [entryPointCount]bool
	stats        *Stats
}

var _ NativeAPI = (*Handler)(nil)

// NewHandler returns a Handler forwarding calls to api
func NewHandler(api NativeAPI, contexts ContextResolver, paths PathResolver, opts Opts) (*Handler, error) {
	if api == nil {
		return nil, errors.New("a native API is required")
	}

	d, err := newDiscarders(opts.DiscardedPaths)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		api:          api,
		contexts:     contexts,
		paths:        paths,
		filterPrefix: opts.FilterPrefix,
		discarders:   d,
		stats:        NewStats(),
	}
	for _, ep := range opts.Disabled {
		if ep < 0 || ep >= entryPointCount {
			return nil, errors.Errorf("invalid entry point %d", int(ep))
		}
		h.disabled[ep] = true
	}
	return h, nil
}

// Stats returns the counters of the handler
func (h *Handler) Stats() *Stats {
	return h.stats
}

// call is the state an intercept carries across the pass-through
type call struct {
	ep       EntryPoint
	observed bool
	sink     Sink
}

// begin runs before the pass-through. Resolving the context must stay the
// first thing an intercept does, disabled entry points included.
func (h *Handler) begin(ep EntryPoint) call {
	sink, panicked := resolveContext(h.contexts)

	h.stats.inc(ep, callsCounter)
	if panicked {
		h.stats.inc(ep, recoveredCounter)
	}
	if h.disabled[ep] {
		return call{ep: ep}
	}
	return call{ep: ep, observed: true, sink: sink}
}

// observe records a call after its pass-through. fields appends the entry
// point specific fields and returns the final line. Nothing escapes from
// here.
func (h *Handler) observe(c call, oa *native.ObjectAttributes, fields func(r *record) string) {
	if !c.observed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.stats.inc(c.ep, recoveredCounter)
			log.Errorf("recovered from panic while observing %s: %v", c.ep, r) //nolint:errcheck
		}
	}()

	if c.sink == nil {
		h.stats.inc(c.ep, noContextCounter)
		return
	}

	var name native.UnicodeString
	if oa != nil {
		name = oa.ObjectName()
	}

	if c.ep.filtersByName() && !matchesNameFilter(name, h.filterPrefix) {
		h.stats.inc(c.ep, filteredCounter)
		return
	}

	var paths resolver.Paths
	if h.paths != nil {
		paths = h.paths.Resolve(oa)
	}

	if h.discarders.match(paths.Os) {
		h.stats.inc(c.ep, discardedCounter)
		return
	}

	c.sink.AddToLogQueue(log.DebugLvl, fields(newRecord(c.ep, name, paths)))
	h.stats.inc(c.ep, emittedCounter)
}

// NtCreateFile intercepts NtCreateFile
func (h *Handler) NtCreateFile(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes, iosb *native.IoStatusBlock, allocationSize *int64, fileAttributes native.FileAttributes, share native.ShareAccess, disposition native.CreateDisposition, options native.CreateOptions, eaBuffer uintptr, eaLength uint32) native.NtStatus {
	c := h.begin(CreateFile)

	status := h.api.NtCreateFile(handle, access, oa, iosb, allocationSize, fileAttributes, share, disposition, options, eaBuffer, eaLength)

	h.observe(c, oa, func(r *record) string {
		return r.accessMask(access).
			field("Disposition", disposition).
			field("CreateOptions", options).
			status(status)
	})
	return status
}

// NtOpenFile intercepts NtOpenFile
func (h *Handler) NtOpenFile(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes, iosb *native.IoStatusBlock, share native.ShareAccess, options native.CreateOptions) native.NtStatus {
	c := h.begin(OpenFile)

	status := h.api.NtOpenFile(handle, access, oa, iosb, share, options)

	h.observe(c, oa, func(r *record) string {
		return r.accessMask(access).
			field("ShareOptions", share).
			field("OpenOptions", options).
			status(status)
	})
	return status
}

// NtDeleteFile intercepts NtDeleteFile
func (h *Handler) NtDeleteFile(oa *native.ObjectAttributes) native.NtStatus {
	c := h.begin(DeleteFile)

	status := h.api.NtDeleteFile(oa)

	h.observe(c, oa, func(r *record) string {
		return r.status(status)
	})
	return status
}

// NtQueryAttributesFile intercepts NtQueryAttributesFile
func (h *Handler) NtQueryAttributesFile(oa *native.ObjectAttributes, info *native.FileBasicInformation) native.NtStatus {
	c := h.begin(QueryAttributesFile)

	status := h.api.NtQueryAttributesFile(oa, info)

	h.observe(c, oa, func(r *record) string {
		return r.basicInfo(info, status).status(status)
	})
	return status
}

// NtQueryFullAttributesFile intercepts NtQueryFullAttributesFile
func (h *Handler) NtQueryFullAttributesFile(oa *native.ObjectAttributes, attributes uintptr) native.NtStatus {
	c := h.begin(QueryFullAttributesFile)

	status := h.api.NtQueryFullAttributesFile(oa, attributes)

	h.observe(c, oa, func(r *record) string {
		return r.field("Attributes", formatPointer(attributes)).status(status)
	})
	return status
}

// NtOpenSymbolicLinkObject intercepts NtOpenSymbolicLinkObject
func (h *Handler) NtOpenSymbolicLinkObject(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes) native.NtStatus {
	c := h.begin(OpenSymbolicLinkObject)

	status := h.api.NtOpenSymbolicLinkObject(handle, access, oa)

	h.observe(c, oa, func(r *record) string {
		return r.accessMask(access).status(status)
	})
	return status
}

// NtOpenDirectoryObject intercepts NtOpenDirectoryObject
func (h *Handler) NtOpenDirectoryObject(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes) native.NtStatus {
	c := h.begin(OpenDirectoryObject)

	status := h.api.NtOpenDirectoryObject(handle, access, oa)

	h.observe(c, oa, func(r *record) string {
		return r.accessMask(access).status(status)
	})
	return status
}
