// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import (
	"unicode/utf16"
	"unsafe"

	"github.com/pkg/errors"
)

// ObjectAttributes mirrors OBJECT_ATTRIBUTES. A pointer received from native
// code can be used as-is; such records are borrowed and must never be
// disposed. Records built with NewObjectAttributes own their name, QoS and
// security descriptor blocks and must be disposed with the allocator used to
// write them.
type ObjectAttributes struct {
	Length             uint32
	RootDirectory      Handle
	objectName         uintptr
	Attributes         HandleAttributes
	securityDescriptor uintptr
	securityQos        uintptr
}

// ObjectAttributesSize is the size of the native OBJECT_ATTRIBUTES record
const ObjectAttributesSize = uint32(unsafe.Sizeof(ObjectAttributes{}))

// NewObjectAttributes builds an owned record for name relative to root
func NewObjectAttributes(alloc Allocator, root Handle, name string, attributes HandleAttributes) (*ObjectAttributes, error) {
	oa := &ObjectAttributes{
		Length:        ObjectAttributesSize,
		RootDirectory: root,
		Attributes:    attributes,
	}
	if err := oa.SetObjectName(alloc, UnicodeString(name)); err != nil {
		return nil, err
	}
	return oa, nil
}

// HasRoot reports whether the name is relative to a root directory handle
func (oa *ObjectAttributes) HasRoot() bool {
	return oa.RootDirectory != 0
}

// ObjectName returns the object name, empty when unset
func (oa *ObjectAttributes) ObjectName() UnicodeString {
	if oa.objectName == 0 {
		return ""
	}
	return (*unicodeString)(unsafe.Pointer(oa.objectName)).text()
}

// SetObjectName replaces the object name. The header and its characters
// live in a single block.
func (oa *ObjectAttributes) SetObjectName(alloc Allocator, name UnicodeString) error {
	chars := utf16.Encode([]rune(string(name)))
	if len(chars) > maxUnicodeStringChars {
		return errors.Errorf("object name too long: %d characters", len(chars))
	}

	freeSlot(alloc, &oa.objectName)

	size := unicodeStringSize + uintptr(len(chars))*2
	block, err := alloc.Alloc(size)
	if err != nil {
		return errors.Wrap(err, "allocating object name")
	}

	header := (*unicodeString)(unsafe.Pointer(block))
	header.Length = uint16(len(chars) * 2)
	header.MaximumLength = header.Length
	if len(chars) > 0 {
		header.Buffer = block + unicodeStringSize
		copy(unsafe.Slice((*uint16)(unsafe.Pointer(header.Buffer)), len(chars)), chars)
	}

	oa.objectName = block
	return nil
}

// SecurityQos returns the security quality of service, if set
func (oa *ObjectAttributes) SecurityQos() (SecurityQos, bool) {
	return readSlot[SecurityQos](oa.securityQos)
}

// SetSecurityQos replaces the security quality of service
func (oa *ObjectAttributes) SetSecurityQos(alloc Allocator, qos SecurityQos) error {
	return errors.Wrap(writeSlot(alloc, &oa.securityQos, qos), "setting security qos")
}

// SecurityDescriptor returns the security descriptor, if set
func (oa *ObjectAttributes) SecurityDescriptor() (SecurityDescriptor, bool) {
	return readSlot[SecurityDescriptor](oa.securityDescriptor)
}

// SetSecurityDescriptor replaces the security descriptor
func (oa *ObjectAttributes) SetSecurityDescriptor(alloc Allocator, sd SecurityDescriptor) error {
	return errors.Wrap(writeSlot(alloc, &oa.securityDescriptor, sd), "setting security descriptor")
}

// Dispose frees every owned block. Calling it again is a no-op.
func (oa *ObjectAttributes) Dispose(alloc Allocator) {
	freeSlot(alloc, &oa.objectName)
	freeSlot(alloc, &oa.securityQos)
	freeSlot(alloc, &oa.securityDescriptor)
}

func readSlot[T any](slot uintptr) (T, bool) {
	var v T
	if slot == 0 {
		return v, false
	}
	return *(*T)(unsafe.Pointer(slot)), true
}

func writeSlot[T any](alloc Allocator, slot *uintptr, v T) error {
	freeSlot(alloc, slot)

	block, err := alloc.Alloc(unsafe.Sizeof(v))
	if err != nil {
		return err
	}
	*(*T)(unsafe.Pointer(block)) = v
	*slot = block
	return nil
}

func freeSlot(alloc Allocator, slot *uintptr) {
	if *slot == 0 {
		return
	}
	alloc.Free(*slot)
	*slot = 0
}
