// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"fmt"
	"strings"
)

// EntryPoint identifies an intercepted ntdll export
type EntryPoint int

// Intercepted entry points
const (
	CreateFile EntryPoint = iota
	OpenFile
	DeleteFile
	QueryAttributesFile
	QueryFullAttributesFile
	OpenSymbolicLinkObject
	OpenDirectoryObject

	entryPointCount
)

var entryPointNames = [entryPointCount]string{
	CreateFile:              "NtCreateFile",
	OpenFile:                "NtOpenFile",
	DeleteFile:              "NtDeleteFile",
	QueryAttributesFile:     "NtQueryAttributesFile",
	QueryFullAttributesFile: "NtQueryFullAttributesFile",
	OpenSymbolicLinkObject:  "NtOpenSymbolicLinkObject",
	OpenDirectoryObject:     "NtOpenDirectoryObject",
}

// AllEntryPoints lists every intercepted entry point
func AllEntryPoints() []EntryPoint {
	out := make([]EntryPoint, 0, entryPointCount)
	for ep := EntryPoint(0); ep < entryPointCount; ep++ {
		out = append(out, ep)
	}
	return out
}

// String returns the name of the ntdll export
func (ep EntryPoint) String() string {
	if ep >= 0 && ep < entryPointCount {
		return entryPointNames[ep]
	}
	return fmt.Sprintf("EntryPoint(%d)", int(ep))
}

// filtersByName reports whether the entry point only records names matching
// the configured filter prefix
func (ep EntryPoint) filtersByName() bool {
	return ep == CreateFile || ep == QueryAttributesFile
}

// ParseEntryPoint returns the entry point with the given export name. The
// lookup is case insensitive and the "Nt" prefix is optional.
func ParseEntryPoint(name string) (EntryPoint, error) {
	for ep, n := range entryPointNames {
		if strings.EqualFold(name, n) || strings.EqualFold(name, n[2:]) {
			return EntryPoint(ep), nil
		}
	}
	return 0, fmt.Errorf("unknown entry point: %s", name)
}
