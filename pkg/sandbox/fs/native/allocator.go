// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// Allocator hands out the native memory backing the substructures owned by
// an ObjectAttributes record. Returned blocks must be zeroed, pointer
// aligned, and stable until freed.
type Allocator interface {
	Alloc(size uintptr) (uintptr, error)
	Free(ptr uintptr)
}

// GoAllocator allocates from the Go heap and keeps every live block
// referenced so the collector never reclaims memory still reachable through
// a raw pointer.
type GoAllocator struct {
	mu     sync.Mutex
	blocks map[uintptr][]uint64
}

// NewGoAllocator returns an empty GoAllocator
func NewGoAllocator() *GoAllocator {
	return &GoAllocator{
		blocks: make(map[uintptr][]uint64),
	}
}

// Alloc implements Allocator
func (a *GoAllocator) Alloc(size uintptr) (uintptr, error) {
	if size == 0 {
		return 0, errors.New("zero sized allocation")
	}

	block := make([]uint64, (size+7)/8)
	ptr := uintptr(unsafe.Pointer(&block[0]))

	a.mu.Lock()
	a.blocks[ptr] = block
	a.mu.Unlock()

	return ptr, nil
}

// Free implements Allocator. Unknown pointers are ignored.
func (a *GoAllocator) Free(ptr uintptr) {
	a.mu.Lock()
	delete(a.blocks, ptr)
	a.mu.Unlock()
}

// Live returns the number of blocks not yet freed
func (a *GoAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocks)
}
