// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

// NativeAPI is the real implementation of the intercepted entry points
type NativeAPI interface {
	NtCreateFile(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes, iosb *native.IoStatusBlock, allocationSize *int64, fileAttributes native.FileAttributes, share native.ShareAccess, disposition native.CreateDisposition, options native.CreateOptions, eaBuffer uintptr, eaLength uint32) native.NtStatus
	NtOpenFile(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes, iosb *native.IoStatusBlock, share native.ShareAccess, options native.CreateOptions) native.NtStatus
	NtDeleteFile(oa *native.ObjectAttributes) native.NtStatus
	NtQueryAttributesFile(oa *native.ObjectAttributes, info *native.FileBasicInformation) native.NtStatus
	NtQueryFullAttributesFile(oa *native.ObjectAttributes, attributes uintptr) native.NtStatus
	NtOpenSymbolicLinkObject(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes) native.NtStatus
	NtOpenDirectoryObject(handle *native.Handle, access native.AccessMask, oa *native.ObjectAttributes) native.NtStatus
}
