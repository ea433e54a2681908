// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package hooks

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

// newDetour returns a native callable address running the intercept of ep.
// Callbacks are never released, so a detour must be created once per entry
// point.
func newDetour(h *Handler, ep EntryPoint) (uintptr, error) {
	var fn interface{}

	switch ep {
	case CreateFile:
		fn = func(handle, access, oa, iosb, allocationSize, fileAttributes, share, disposition, options, eaBuffer, eaLength uintptr) uintptr {
			return uintptr(h.NtCreateFile(
				(*native.Handle)(unsafe.Pointer(handle)),
				native.AccessMask(access),
				(*native.ObjectAttributes)(unsafe.Pointer(oa)),
				(*native.IoStatusBlock)(unsafe.Pointer(iosb)),
				(*int64)(unsafe.Pointer(allocationSize)),
				native.FileAttributes(fileAttributes),
				native.ShareAccess(share),
				native.CreateDisposition(disposition),
				native.CreateOptions(options),
				eaBuffer,
				uint32(eaLength),
			))
		}
	case OpenFile:
		fn = func(handle, access, oa, iosb, share, options uintptr) uintptr {
			return uintptr(h.NtOpenFile(
				(*native.Handle)(unsafe.Pointer(handle)),
				native.AccessMask(access),
				(*native.ObjectAttributes)(unsafe.Pointer(oa)),
				(*native.IoStatusBlock)(unsafe.Pointer(iosb)),
				native.ShareAccess(share),
				native.CreateOptions(options),
			))
		}
	case DeleteFile:
		fn = func(oa uintptr) uintptr {
			return uintptr(h.NtDeleteFile((*native.ObjectAttributes)(unsafe.Pointer(oa))))
		}
	case QueryAttributesFile:
		fn = func(oa, info uintptr) uintptr {
			return uintptr(h.NtQueryAttributesFile(
				(*native.ObjectAttributes)(unsafe.Pointer(oa)),
				(*native.FileBasicInformation)(unsafe.Pointer(info)),
			))
		}
	case QueryFullAttributesFile:
		fn = func(oa, attributes uintptr) uintptr {
			return uintptr(h.NtQueryFullAttributesFile((*native.ObjectAttributes)(unsafe.Pointer(oa)), attributes))
		}
	case OpenSymbolicLinkObject:
		fn = func(handle, access, oa uintptr) uintptr {
			return uintptr(h.NtOpenSymbolicLinkObject(
				(*native.Handle)(unsafe.Pointer(handle)),
				native.AccessMask(access),
				(*native.ObjectAttributes)(unsafe.Pointer(oa)),
			))
		}
	case OpenDirectoryObject:
		fn = func(handle, access, oa uintptr) uintptr {
			return uintptr(h.NtOpenDirectoryObject(
				(*native.Handle)(unsafe.Pointer(handle)),
				native.AccessMask(access),
				(*native.ObjectAttributes)(unsafe.Pointer(oa)),
			))
		}
	default:
		return 0, errors.Errorf("invalid entry point %d", int(ep))
	}

	return windows.NewCallback(fn), nil
}
