// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package native

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// lptr is LMEM_FIXED | LMEM_ZEROINIT
const lptr = 0x0040

// LocalAllocator allocates from the process local heap, matching the memory
// native callers expect to find behind an OBJECT_ATTRIBUTES
type LocalAllocator struct{}

// Alloc implements Allocator
func (LocalAllocator) Alloc(size uintptr) (uintptr, error) {
	if size == 0 {
		return 0, errors.New("zero sized allocation")
	}
	ptr, err := windows.LocalAlloc(lptr, uint32(size))
	if err != nil {
		return 0, errors.Wrapf(err, "LocalAlloc(%d)", size)
	}
	return ptr, nil
}

// Free implements Allocator
func (LocalAllocator) Free(ptr uintptr) {
	if ptr == 0 {
		return
	}
	_, _ = windows.LocalFree(windows.Handle(ptr))
}

// DefaultAllocator returns the allocator used for records owned by this process
func DefaultAllocator() Allocator {
	return LocalAllocator{}
}
