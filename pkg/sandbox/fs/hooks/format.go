// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"fmt"
	"strings"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/resolver"
)

// record builds a single diagnostic line:
//
//	[NtOpenFile] ObjectName: n, FullKernelPath: k, FullOsPath: o, AccessMask:{a}, ..., Status: s
type record struct {
	b strings.Builder
}

func newRecord(ep EntryPoint, name native.UnicodeString, paths resolver.Paths) *record {
	r := &record{}
	fmt.Fprintf(&r.b, "[%s] ObjectName: %s, FullKernelPath: %s, FullOsPath: %s",
		ep, name.WithoutPrefix(), paths.Kernel, paths.Os)
	return r
}

func (r *record) accessMask(access native.AccessMask) *record {
	fmt.Fprintf(&r.b, ", AccessMask:{%s}", access)
	return r
}

func (r *record) field(name string, value interface{}) *record {
	fmt.Fprintf(&r.b, ", %s: %v", name, value)
	return r
}

// basicInfo renders the snapshot, left empty when the query didn't fill it
func (r *record) basicInfo(info *native.FileBasicInformation, status native.NtStatus) *record {
	r.b.WriteString(", FileBasicInfo:{")
	if info != nil && status != native.StatusObjectNameNotFound {
		r.b.WriteString(info.String())
	}
	r.b.WriteString("}")
	return r
}

func (r *record) status(status native.NtStatus) string {
	fmt.Fprintf(&r.b, ", Status: %s", status)
	return r.b.String()
}

func formatPointer(p uintptr) string {
	return fmt.Sprintf("0x%X", p)
}
