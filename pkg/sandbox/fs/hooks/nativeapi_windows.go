// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package hooks

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sys/windows"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

var modntdll = windows.NewLazySystemDLL(ntdll)

// ProcAPI calls the ntdll entry points by address. Once hooks are installed
// the addresses are replaced by the originals returned by the Installer.
type ProcAPI struct {
	procs [entryPointCount]*atomic.Uintptr
}

var (
	_ NativeAPI      = (*ProcAPI)(nil)
	_ OriginalSetter = (*ProcAPI)(nil)
)

// NewProcAPI resolves the entry points exported by ntdll
func NewProcAPI() (*ProcAPI, error) {
	api := &ProcAPI{}
	for _, ep := range AllEntryPoints() {
		proc := modntdll.NewProc(ep.String())
		if err := proc.Find(); err != nil {
			return nil, errors.Wrapf(err, "couldn't find %s", ep)
		}
		api.procs[ep] = atomic.NewUintptr(proc.Addr())
	}
	return api, nil
}

// NewPlatformAPI returns the NativeAPI of this platform
func NewPlatformAPI() (NativeAPI, error) {
	return NewProcAPI()
}

// SetOriginal implements OriginalSetter
func (p *ProcAPI) SetOriginal(ep EntryPoint, original uintptr) {
	p.procs[ep].Store(original)
}

func (p *ProcAPI) call(ep EntryPoint, args ...uintptr) native.NtStatus {
	r, _, _ := syscall.SyscallN(p.procs[ep].Load(), args...)
	return native.NtStatus(r)
}

// NtCreateFile implements NativeAPI
func (p *ProcAPI) NtCreateFile(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes, iosb *native.IoStatusBlock, allocationSize *int64, fileAttributes native.FileAttributes, share native.ShareAccess, disposition native.CreateDisposition, options native.CreateOptions, eaBuffer uintptr, eaLength uint32) native.NtStatus {
	return p.call(CreateFile,
		uintptr(unsafe.Pointer(handle)),
		uintptr(access),
		uintptr(unsafe.Pointer(oa)),
		uintptr(unsafe.Pointer(iosb)),
		uintptr(unsafe.Pointer(allocationSize)),
		uintptr(fileAttributes),
		uintptr(share),
		uintptr(disposition),
		uintptr(options),
		eaBuffer,
		uintptr(eaLength),
	)
}

// NtOpenFile implements NativeAPI
func (p *ProcAPI) NtOpenFile(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes, iosb *native.IoStatusBlock, share native.ShareAccess, options native.CreateOptions) native.NtStatus {
	return p.call(OpenFile,
		uintptr(unsafe.Pointer(handle)),
		uintptr(access),
		uintptr(unsafe.Pointer(oa)),
		uintptr(unsafe.Pointer(iosb)),
		uintptr(share),
		uintptr(options),
	)
}

// NtDeleteFile implements NativeAPI
func (p *ProcAPI) NtDeleteFile(oa *native.ObjectAttributes) native.NtStatus {
	return p.call(DeleteFile, uintptr(unsafe.Pointer(oa)))
}

// NtQueryAttributesFile implements NativeAPI
func (p *ProcAPI) NtQueryAttributesFile(oa *native.ObjectAttributes, info *native.FileBasicInformation) native.NtStatus {
	return p.call(QueryAttributesFile, uintptr(unsafe.Pointer(oa)), uintptr(unsafe.Pointer(info)))
}

// NtQueryFullAttributesFile implements NativeAPI
func (p *ProcAPI) NtQueryFullAttributesFile(oa *native.ObjectAttributes, attributes uintptr) native.NtStatus {
	return p.call(QueryFullAttributesFile, uintptr(unsafe.Pointer(oa)), attributes)
}

// NtOpenSymbolicLinkObject implements NativeAPI
func (p *ProcAPI) NtOpenSymbolicLinkObject(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes) native.NtStatus {
	return p.call(OpenSymbolicLinkObject, uintptr(unsafe.Pointer(handle)), uintptr(access), uintptr(unsafe.Pointer(oa)))
}

// NtOpenDirectoryObject implements NativeAPI
func (p *ProcAPI) NtOpenDirectoryObject(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes) native.NtStatus {
	return p.call(OpenDirectoryObject, uintptr(unsafe.Pointer(handle)), uintptr(access), uintptr(unsafe.Pointer(oa)))
}
