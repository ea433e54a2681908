// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package resolver

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

var (
	modntdll          = windows.NewLazySystemDLL("ntdll.dll")
	procNtQueryObject = modntdll.NewProc("NtQueryObject")
)

// objectNameInformation is the OBJECT_INFORMATION_CLASS returning an
// OBJECT_NAME_INFORMATION
const objectNameInformation = 1

// ObjectNames resolves handles through NtQueryObject
type ObjectNames struct{}

// NewHandleResolver returns the platform HandleResolver
func NewHandleResolver() HandleResolver {
	return ObjectNames{}
}

// KernelPathFromHandle implements HandleResolver
func (ObjectNames) KernelPathFromHandle(h native.Handle) (string, error) {
	if err := procNtQueryObject.Find(); err != nil {
		return "", errors.Wrap(err, "NtQueryObject not available")
	}

	size := uint32(512)
	for attempt := 0; attempt < 4; attempt++ {
		buf := make([]byte, size)
		var returned uint32
		r, _, _ := procNtQueryObject.Call(
			uintptr(h),
			objectNameInformation,
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(size),
			uintptr(unsafe.Pointer(&returned)),
		)

		switch status := native.NtStatus(r); status {
		case native.StatusSuccess:
			name := (*windows.NTUnicodeString)(unsafe.Pointer(&buf[0]))
			return name.String(), nil
		case native.StatusInfoLengthMismatch, native.StatusBufferOverflow, native.StatusBufferTooSmall:
			if returned > size {
				size = returned
			} else {
				size *= 2
			}
		default:
			return "", errors.Errorf("NtQueryObject(%#x): %s", uintptr(h), status)
		}
	}
	return "", errors.Errorf("NtQueryObject(%#x): name exceeds %d bytes", uintptr(h), size)
}
