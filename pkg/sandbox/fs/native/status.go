// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package native holds the NT ABI types exchanged with the intercepted
// filesystem entry points of ntdll.
package native

import "fmt"

// Handle is an opaque NT object handle
type Handle uintptr

// NtStatus is the NTSTATUS value returned by a native entry point
type NtStatus uint32

// NTSTATUS values, see ntstatus.h
const (
	StatusSuccess            NtStatus = 0x00000000
	StatusPending            NtStatus = 0x00000103
	StatusReparse            NtStatus = 0x00000104
	StatusBufferOverflow     NtStatus = 0x80000005
	StatusNoMoreFiles        NtStatus = 0x80000006
	StatusUnsuccessful       NtStatus = 0xC0000001
	StatusNotImplemented     NtStatus = 0xC0000002
	StatusInfoLengthMismatch NtStatus = 0xC0000004
	StatusInvalidHandle      NtStatus = 0xC0000008
	StatusInvalidParameter   NtStatus = 0xC000000D
	StatusNoSuchFile         NtStatus = 0xC000000F
	StatusAccessDenied       NtStatus = 0xC0000022
	StatusBufferTooSmall     NtStatus = 0xC0000023
	StatusObjectTypeMismatch NtStatus = 0xC0000024
	StatusObjectNameInvalid  NtStatus = 0xC0000033
	StatusObjectNameNotFound NtStatus = 0xC0000034
	StatusObjectNameCollision NtStatus = 0xC0000035
	StatusObjectPathInvalid  NtStatus = 0xC0000039
	StatusObjectPathNotFound NtStatus = 0xC000003A
	StatusObjectPathSyntaxBad NtStatus = 0xC000003B
	StatusSharingViolation   NtStatus = 0xC0000043
	StatusDeletePending      NtStatus = 0xC0000056
	StatusFileIsADirectory   NtStatus = 0xC00000BA
	StatusNotADirectory      NtStatus = 0xC0000103
	StatusCannotDelete       NtStatus = 0xC0000121
)

var statusNames = map[NtStatus]string{
	StatusSuccess:             "Success",
	StatusPending:             "Pending",
	StatusReparse:             "Reparse",
	StatusBufferOverflow:      "BufferOverflow",
	StatusNoMoreFiles:         "NoMoreFiles",
	StatusUnsuccessful:        "Unsuccessful",
	StatusNotImplemented:      "NotImplemented",
	StatusInfoLengthMismatch:  "InfoLengthMismatch",
	StatusInvalidHandle:       "InvalidHandle",
	StatusInvalidParameter:    "InvalidParameter",
	StatusNoSuchFile:          "NoSuchFile",
	StatusAccessDenied:        "AccessDenied",
	StatusBufferTooSmall:      "BufferTooSmall",
	StatusObjectTypeMismatch:  "ObjectTypeMismatch",
	StatusObjectNameInvalid:   "ObjectNameInvalid",
	StatusObjectNameNotFound:  "ObjectNameNotFound",
	StatusObjectNameCollision: "ObjectNameCollision",
	StatusObjectPathInvalid:   "ObjectPathInvalid",
	StatusObjectPathNotFound:  "ObjectPathNotFound",
	StatusObjectPathSyntaxBad: "ObjectPathSyntaxBad",
	StatusSharingViolation:    "SharingViolation",
	StatusDeletePending:       "DeletePending",
	StatusFileIsADirectory:    "FileIsADirectory",
	StatusNotADirectory:       "NotADirectory",
	StatusCannotDelete:        "CannotDelete",
}

// IsSuccess mirrors the NT_SUCCESS macro: success and informational codes
// have the severity bit cleared.
func (s NtStatus) IsSuccess() bool {
	return int32(s) >= 0
}

// String returns the symbolic name of the status, or its hexadecimal value
func (s NtStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(s))
}

// IoStatusBlock mirrors IO_STATUS_BLOCK
type IoStatusBlock struct {
	Status      uintptr
	Information uintptr
}
