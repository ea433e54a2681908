// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/resolver"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// events is shared by the fakes to check the ordering of the steps of an
// intercept
type events struct {
	sync.Mutex
	list []string
}

func (e *events) add(event string) {
	e.Lock()
	e.list = append(e.list, event)
	e.Unlock()
}

type fakeAPI struct {
	events *events
	status native.NtStatus
	handle native.Handle
	info   native.FileBasicInformation
}

func (f *fakeAPI) pass(name string) native.NtStatus {
	f.events.add("pass:" + name)
	return f.status
}

func (f *fakeAPI) NtCreateFile(handle *native.Handle, _ native.AccessMask, _ *native.ObjectAttributes, iosb *native.IoStatusBlock, _ *int64, _ native.FileAttributes, _ native.ShareAccess, _ native.CreateDisposition, _ native.CreateOptions, _ uintptr, _ uint32) native.NtStatus {
	*handle = f.handle
	iosb.Information = 2
	return f.pass("NtCreateFile")
}

func (f *fakeAPI) NtOpenFile(handle *native.Handle, _ native.AccessMask, _ *native.ObjectAttributes, _ *native.IoStatusBlock, _ native.ShareAccess, _ native.CreateOptions) native.NtStatus {
	*handle = f.handle
	return f.pass("NtOpenFile")
}

func (f *fakeAPI) NtDeleteFile(*native.ObjectAttributes) native.NtStatus {
	return f.pass("NtDeleteFile")
}

func (f *fakeAPI) NtQueryAttributesFile(_ *native.ObjectAttributes, info *native.FileBasicInformation) native.NtStatus {
	*info = f.info
	return f.pass("NtQueryAttributesFile")
}

func (f *fakeAPI) NtQueryFullAttributesFile(*native.ObjectAttributes, uintptr) native.NtStatus {
	return f.pass("NtQueryFullAttributesFile")
}

func (f *fakeAPI) NtOpenSymbolicLinkObject(handle *native.Handle, _ native.AccessMask, _ *native.ObjectAttributes) native.NtStatus {
	*handle = f.handle
	return f.pass("NtOpenSymbolicLinkObject")
}

func (f *fakeAPI) NtOpenDirectoryObject(handle *native.Handle, _ native.AccessMask, _ *native.ObjectAttributes) native.NtStatus {
	*handle = f.handle
	return f.pass("NtOpenDirectoryObject")
}

type fakeSink struct {
	events *events
	sync.Mutex
	lines  []string
	levels []log.LogLevel
}

func (s *fakeSink) AddToLogQueue(level log.LogLevel, message string) {
	s.events.add("emit")
	s.Lock()
	s.lines = append(s.lines, message)
	s.levels = append(s.levels, level)
	s.Unlock()
}

type fakePaths struct {
	events *events
	paths  resolver.Paths
	panics bool
}

func (f *fakePaths) Resolve(*native.ObjectAttributes) resolver.Paths {
	f.events.add("resolve")
	if f.panics {
		panic("resolver exploded")
	}
	return f.paths
}

type fixture struct {
	events *events
	api    *fakeAPI
	sink   *fakeSink
	paths  *fakePaths
	alloc  *native.GoAllocator
}

func newFixture() *fixture {
	ev := &events{}
	return &fixture{
		events: ev,
		api:    &fakeAPI{events: ev, status: native.StatusSuccess, handle: 0x42},
		sink:   &fakeSink{events: ev},
		paths: &fakePaths{events: ev, paths: resolver.Paths{
			Kernel: `\??\D:\data\file.txt`,
			Os:     `D:\data\file.txt`,
		}},
		alloc: native.NewGoAllocator(),
	}
}

func (f *fixture) contexts() ContextResolver {
	return ContextResolverFunc(func() (Sink, bool) {
		f.events.add("context")
		return f.sink, true
	})
}

func (f *fixture) handler(t *testing.T, opts Opts) *Handler {
	h, err := NewHandler(f.api, f.contexts(), f.paths, opts)
	require.NoError(t, err)
	return h
}

func (f *fixture) record(t *testing.T, name string) *native.ObjectAttributes {
	oa, err := native.NewObjectAttributes(f.alloc, 0, name, native.ObjCaseInsensitive)
	require.NoError(t, err)
	t.Cleanup(func() { oa.Dispose(f.alloc) })
	return oa
}

func TestIntercepts(t *testing.T) {
	const name = `\??\D:\data\file.txt`
	const paths = `ObjectName: D:\data\file.txt, FullKernelPath: \??\D:\data\file.txt, FullOsPath: D:\data\file.txt`

	tests := []struct {
		ep       EntryPoint
		call     func(h *Handler, oa *native.ObjectAttributes) native.NtStatus
		expected string
	}{
		{
			CreateFile,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				var handle native.Handle
				var iosb native.IoStatusBlock
				return h.NtCreateFile(&handle, native.GenericRead|native.Synchronize, oa, &iosb, nil, native.FileAttributeNormal,
					native.ShareRead, native.FileOpenIf, native.FileSynchronousIoNonalert, 0, 0)
			},
			`[NtCreateFile] ` + paths + `, AccessMask:{GenericRead, Synchronize}, Disposition: OpenIf, CreateOptions: SynchronousIoNonalert, Status: Success`,
		},
		{
			OpenFile,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				var handle native.Handle
				var iosb native.IoStatusBlock
				return h.NtOpenFile(&handle, native.FileReadData, oa, &iosb, native.ShareRead|native.ShareWrite, native.FileNonDirectoryFile)
			},
			`[NtOpenFile] ` + paths + `, AccessMask:{ReadData}, ShareOptions: Read, Write, OpenOptions: NonDirectoryFile, Status: Success`,
		},
		{
			DeleteFile,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				return h.NtDeleteFile(oa)
			},
			`[NtDeleteFile] ` + paths + `, Status: Success`,
		},
		{
			QueryAttributesFile,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				var info native.FileBasicInformation
				return h.NtQueryAttributesFile(oa, &info)
			},
			`[NtQueryAttributesFile] ` + paths + `, FileBasicInfo:{CreationTime: 0, LastAccessTime: 0, LastWriteTime: 0, ChangeTime: 0, FileAttributes: Archive}, Status: Success`,
		},
		{
			QueryFullAttributesFile,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				return h.NtQueryFullAttributesFile(oa, 0xBEEF)
			},
			`[NtQueryFullAttributesFile] ` + paths + `, Attributes: 0xBEEF, Status: Success`,
		},
		{
			OpenSymbolicLinkObject,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				var handle native.Handle
				return h.NtOpenSymbolicLinkObject(&handle, native.GenericRead, oa)
			},
			`[NtOpenSymbolicLinkObject] ` + paths + `, AccessMask:{GenericRead}, Status: Success`,
		},
		{
			OpenDirectoryObject,
			func(h *Handler, oa *native.ObjectAttributes) native.NtStatus {
				var handle native.Handle
				return h.NtOpenDirectoryObject(&handle, native.AccessMask(0x3), oa)
			},
			`[NtOpenDirectoryObject] ` + paths + `, AccessMask:{WriteData, ReadData}, Status: Success`,
		},
	}

	for _, test := range tests {
		t.Run(test.ep.String(), func(t *testing.T) {
			f := newFixture()
			f.api.info = native.FileBasicInformation{FileAttributes: native.FileAttributeArchive}
			h := f.handler(t, Opts{FilterPrefix: DefaultFilterPrefix})

			status := test.call(h, f.record(t, name))

			assert.Equal(t, native.StatusSuccess, status)
			require.Len(t, f.sink.lines, 1)
			assert.Equal(t, test.expected, f.sink.lines[0])
			assert.Equal(t, log.DebugLvl, f.sink.levels[0])
			assert.Equal(t, []string{"context", "pass:" + test.ep.String(), "resolve", "emit"}, f.events.list)

			stats := h.Stats().Get(test.ep)
			assert.EqualValues(t, 1, stats.Calls)
			assert.EqualValues(t, 1, stats.Emitted)
		})
	}
}

func TestStatusAndOutputsUnchanged(t *testing.T) {
	f := newFixture()
	f.api.status = native.StatusAccessDenied
	f.api.handle = 0x1234
	h := f.handler(t, Opts{FilterPrefix: DefaultFilterPrefix})
	oa := f.record(t, `\??\D:\secret`)

	var handle native.Handle
	var iosb native.IoStatusBlock
	status := h.NtCreateFile(&handle, native.GenericWrite, oa, &iosb, nil, 0, 0, native.FileCreate, 0, 0, 0)
	assert.Equal(t, native.StatusAccessDenied, status)
	assert.Equal(t, native.Handle(0x1234), handle)
	assert.EqualValues(t, 2, iosb.Information)
	assert.Equal(t, `\??\D:\secret`, string(oa.ObjectName()))
	require.Len(t, f.sink.lines, 1)
	assert.True(t, strings.HasSuffix(f.sink.lines[0], "Status: AccessDenied"))
}

func TestCreateFilterSkipsRecord(t *testing.T) {
	for _, name := range []string{`\??\C:\Windows\notepad.exe`, `D:\unprefixed`, `\Device\HarddiskVolume3\data`} {
		f := newFixture()
		h := f.handler(t, Opts{FilterPrefix: DefaultFilterPrefix})

		var handle native.Handle
		var iosb native.IoStatusBlock
		status := h.NtCreateFile(&handle, native.GenericRead, f.record(t, name), &iosb, nil, 0, 0, native.FileOpen, 0, 0, 0)

		assert.Equal(t, native.StatusSuccess, status, name)
		assert.Empty(t, f.sink.lines, name)
		assert.NotContains(t, f.events.list, "resolve", name)
		assert.EqualValues(t, 1, h.Stats().Get(CreateFile).Filtered)
		assert.Zero(t, h.Stats().Get(CreateFile).Emitted)
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	h := f.handler(t, Opts{FilterPrefix: "d"})

	var info native.FileBasicInformation
	h.NtQueryAttributesFile(f.record(t, `\??\D:\x`), &info)
	h.NtQueryAttributesFile(f.record(t, `\GLOBAL??\d:\y`), &info)
	h.NtQueryAttributesFile(f.record(t, `\??\E:\z`), &info)

	assert.Len(t, f.sink.lines, 2)
	assert.EqualValues(t, 1, h.Stats().Get(QueryAttributesFile).Filtered)
}

func TestEmptyFilterPrefixRecordsEveryName(t *testing.T) {
	f := newFixture()
	h := f.handler(t, Opts{})

	var handle native.Handle
	var iosb native.IoStatusBlock
	var info native.FileBasicInformation
	h.NtCreateFile(&handle, native.GenericRead, f.record(t, `relative\file`), &iosb, nil, 0, 0, native.FileOpen, 0, 0, 0)
	h.NtCreateFile(&handle, native.GenericRead, f.record(t, `\Device\HarddiskVolume3\data`), &iosb, nil, 0, 0, native.FileOpen, 0, 0, 0)
	h.NtQueryAttributesFile(f.record(t, `\??\C:\Windows`), &info)

	assert.Len(t, f.sink.lines, 3)
	assert.Zero(t, h.Stats().Get(CreateFile).Filtered)
	assert.Zero(t, h.Stats().Get(QueryAttributesFile).Filtered)
}

func TestUnfilteredEntryPointsAlwaysRecord(t *testing.T) {
	f := newFixture()
	h := f.handler(t, Opts{FilterPrefix: DefaultFilterPrefix})

	h.NtDeleteFile(f.record(t, `\??\C:\Windows\x`))
	h.NtDeleteFile(f.record(t, `relative`))

	assert.Len(t, f.sink.lines, 2)
	assert.Contains(t, f.sink.lines[1], "ObjectName: relative,")
}

func TestQueryAttributesNameNotFound(t *testing.T) {
	f := newFixture()
	f.api.status = native.StatusObjectNameNotFound
	f.api.info = native.FileBasicInformation{CreationTime: 1, FileAttributes: native.FileAttributeDirectory}
	h := f.handler(t, Opts{FilterPrefix: DefaultFilterPrefix})

	info := native.FileBasicInformation{LastWriteTime: 99}
	status := h.NtQueryAttributesFile(f.record(t, `\??\D:\missing`), &info)

	assert.Equal(t, native.StatusObjectNameNotFound, status)
	require.Len(t, f.sink.lines, 1)
	assert.Contains(t, f.sink.lines[0], "FileBasicInfo:{}, Status: ObjectNameNotFound")
	assert.NotContains(t, f.sink.lines[0], "Directory")
}

func TestNoContext(t *testing.T) {
	f := newFixture()
	h, err := NewHandler(f.api, ContextResolverFunc(func() (Sink, bool) {
		f.events.add("context")
		return nil, false
	}), f.paths, Opts{})
	require.NoError(t, err)

	status := h.NtDeleteFile(f.record(t, `\??\D:\x`))

	assert.Equal(t, native.StatusSuccess, status)
	assert.Equal(t, []string{"context", "pass:NtDeleteFile"}, f.events.list)
	assert.EqualValues(t, 1, h.Stats().Get(DeleteFile).NoContext)

	h, err = NewHandler(f.api, nil, f.paths, Opts{})
	require.NoError(t, err)
	assert.Equal(t, native.StatusSuccess, h.NtDeleteFile(f.record(t, `\??\D:\x`)))
}

func TestContextPanicIsContained(t *testing.T) {
	f := newFixture()
	h, err := NewHandler(f.api, ContextResolverFunc(func() (Sink, bool) {
		panic("no hook runtime")
	}), f.paths, Opts{})
	require.NoError(t, err)

	var handle native.Handle
	status := h.NtOpenDirectoryObject(&handle, native.GenericRead, f.record(t, `\BaseNamedObjects`))

	assert.Equal(t, native.StatusSuccess, status)
	assert.Equal(t, native.Handle(0x42), handle)
	assert.Equal(t, []string{"pass:NtOpenDirectoryObject"}, f.events.list)
	stats := h.Stats().Get(OpenDirectoryObject)
	assert.EqualValues(t, 1, stats.RecoveredPanics)
	assert.EqualValues(t, 1, stats.NoContext)
}

func TestObservePanicIsContained(t *testing.T) {
	f := newFixture()
	f.paths.panics = true
	h := f.handler(t, Opts{})

	var status native.NtStatus
	assert.NotPanics(t, func() {
		status = h.NtQueryFullAttributesFile(f.record(t, `\??\D:\x`), 0)
	})
	assert.Equal(t, native.StatusSuccess, status)
	assert.Empty(t, f.sink.lines)
	assert.EqualValues(t, 1, h.Stats().Get(QueryFullAttributesFile).RecoveredPanics)
}

func TestSinkPanicIsContained(t *testing.T) {
	f := newFixture()
	h, err := NewHandler(f.api, StaticContext(panickingSink{}), f.paths, Opts{})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Equal(t, native.StatusSuccess, h.NtDeleteFile(f.record(t, `\??\D:\x`)))
	})
	assert.EqualValues(t, 1, h.Stats().Get(DeleteFile).RecoveredPanics)
}

type panickingSink struct{}

func (panickingSink) AddToLogQueue(log.LogLevel, string) {
	panic("sink closed")
}

func TestNilRecord(t *testing.T) {
	f := newFixture()
	h, err := NewHandler(f.api, f.contexts(), nil, Opts{})
	require.NoError(t, err)

	assert.Equal(t, native.StatusSuccess, h.NtDeleteFile(nil))
	require.Len(t, f.sink.lines, 1)
	assert.Equal(t, "[NtDeleteFile] ObjectName: , FullKernelPath: , FullOsPath: , Status: Success", f.sink.lines[0])
}

func TestDiscardedPaths(t *testing.T) {
	f := newFixture()
	h := f.handler(t, Opts{DiscardedPaths: []string{`d:\data\*.txt`, `C:\Windows\**`}})

	h.NtDeleteFile(f.record(t, `\??\D:\data\file.txt`))
	assert.Empty(t, f.sink.lines)
	assert.EqualValues(t, 1, h.Stats().Get(DeleteFile).Discarded)

	f.paths.paths.Os = `D:\data\file.log`
	h.NtDeleteFile(f.record(t, `\??\D:\data\file.log`))
	assert.Len(t, f.sink.lines, 1)

	f.paths.paths.Os = `C:\Windows\System32\kernel32.dll`
	h.NtDeleteFile(f.record(t, `\??\C:\Windows\System32\kernel32.dll`))
	assert.Len(t, f.sink.lines, 1)
}

func TestInvalidDiscardedPath(t *testing.T) {
	f := newFixture()
	_, err := NewHandler(f.api, f.contexts(), f.paths, Opts{DiscardedPaths: []string{"[unterminated"}})
	assert.Error(t, err)
}

func TestDisabledEntryPoint(t *testing.T) {
	f := newFixture()
	h := f.handler(t, Opts{Disabled: []EntryPoint{OpenFile}})

	var handle native.Handle
	var iosb native.IoStatusBlock
	status := h.NtOpenFile(&handle, native.GenericRead, f.record(t, `\??\D:\x`), &iosb, 0, 0)

	assert.Equal(t, native.StatusSuccess, status)
	assert.Equal(t, []string{"context", "pass:NtOpenFile"}, f.events.list)
	assert.Empty(t, f.sink.lines)
	assert.EqualValues(t, 1, h.Stats().Get(OpenFile).Calls)
	assert.Zero(t, h.Stats().Get(OpenFile).NoContext)

	_, err := NewHandler(f.api, nil, nil, Opts{Disabled: []EntryPoint{entryPointCount}})
	assert.Error(t, err)
	_, err = NewHandler(nil, nil, nil, Opts{})
	assert.Error(t, err)
}

func TestConcurrentIntercepts(t *testing.T) {
	f := newFixture()
	h := f.handler(t, Opts{FilterPrefix: DefaultFilterPrefix})
	oa := f.record(t, `\??\D:\shared`)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.NtDeleteFile(oa)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, f.sink.lines, 400)
	assert.EqualValues(t, 400, h.Stats().Get(DeleteFile).Emitted)
}

func TestContextResolvedFirst(t *testing.T) {
	f := newFixture()
	var h *Handler
	h, err := NewHandler(f.api, ContextResolverFunc(func() (Sink, bool) {
		f.events.add("context")
		assert.Zero(t, h.Stats().Get(DeleteFile).Calls)
		return f.sink, true
	}), f.paths, Opts{})
	require.NoError(t, err)

	h.NtDeleteFile(f.record(t, `\??\D:\x`))
	assert.Equal(t, "context", f.events.list[0])
	assert.EqualValues(t, 1, h.Stats().Get(DeleteFile).Calls)
}

// pathResolverFunc adapts a function to PathResolver
type pathResolverFunc func(oa *native.ObjectAttributes) resolver.Paths

func (f pathResolverFunc) Resolve(oa *native.ObjectAttributes) resolver.Paths {
	return f(oa)
}

func TestReentrantContextResolution(t *testing.T) {
	f := newFixture()
	nested := f.record(t, `\??\D:\nested`)

	var h *Handler
	var depth int
	var nestedStatus native.NtStatus
	h, err := NewHandler(f.api, ContextResolverFunc(func() (Sink, bool) {
		f.events.add("context")
		if depth == 0 {
			depth++
			nestedStatus = h.NtDeleteFile(nested)
		}
		return f.sink, true
	}), f.paths, Opts{FilterPrefix: DefaultFilterPrefix})
	require.NoError(t, err)

	status := h.NtDeleteFile(f.record(t, `\??\D:\outer`))

	assert.Equal(t, native.StatusSuccess, status)
	assert.Equal(t, native.StatusSuccess, nestedStatus)
	assert.Len(t, f.sink.lines, 2)
	assert.Equal(t, []string{
		"context",
		"context", "pass:NtDeleteFile", "resolve", "emit",
		"pass:NtDeleteFile", "resolve", "emit",
	}, f.events.list)
	assert.EqualValues(t, 2, h.Stats().Get(DeleteFile).Emitted)
}

func TestReentrantPathResolution(t *testing.T) {
	f := newFixture()
	nested := f.record(t, `\??\D:\nested`)

	var h *Handler
	var depth int
	var nestedStatus native.NtStatus
	h, err := NewHandler(f.api, f.contexts(), pathResolverFunc(func(oa *native.ObjectAttributes) resolver.Paths {
		f.events.add("resolve")
		if depth == 0 {
			depth++
			var info native.FileBasicInformation
			nestedStatus = h.NtQueryAttributesFile(nested, &info)
		}
		return f.paths.paths
	}), Opts{FilterPrefix: DefaultFilterPrefix})
	require.NoError(t, err)

	var handle native.Handle
	var iosb native.IoStatusBlock
	status := h.NtCreateFile(&handle, native.GenericRead, f.record(t, `\??\D:\outer`), &iosb, nil, 0, 0, native.FileOpen, 0, 0, 0)

	assert.Equal(t, native.StatusSuccess, status)
	assert.Equal(t, native.StatusSuccess, nestedStatus)
	require.Len(t, f.sink.lines, 2)
	assert.Contains(t, f.sink.lines[0], "[NtQueryAttributesFile]")
	assert.Contains(t, f.sink.lines[1], "[NtCreateFile]")
	assert.Equal(t, []string{
		"context", "pass:NtCreateFile", "resolve",
		"context", "pass:NtQueryAttributesFile", "resolve", "emit",
		"emit",
	}, f.events.list)
}

func TestStackedHandlers(t *testing.T) {
	f := newFixture()
	inner := f.handler(t, Opts{})
	outer, err := NewHandler(inner, f.contexts(), f.paths, Opts{})
	require.NoError(t, err)

	assert.Equal(t, native.StatusSuccess, outer.NtDeleteFile(f.record(t, `\??\D:\x`)))
	assert.Len(t, f.sink.lines, 2)
}
