// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package resolver derives the kernel and OS paths designated by an
// OBJECT_ATTRIBUTES record
package resolver

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

// ErrNotSupported is returned by the platform primitives on systems without
// an NT object manager
var ErrNotSupported = errors.New("not supported on this platform")

// HandleResolver returns the kernel path of the object behind a handle
type HandleResolver interface {
	KernelPathFromHandle(h native.Handle) (string, error)
}

// PathTranslator turns a kernel path into the path a user would see
type PathTranslator interface {
	OsPathFromKernelPath(kernelPath string) (string, error)
}

// Paths holds every path derived from a single record
type Paths struct {
	Root   string
	Kernel string
	Os     string
}

// Resolver derives paths from records. It never fails: anything that cannot
// be resolved comes back as an empty string.
type Resolver struct {
	handles    HandleResolver
	translator PathTranslator
}

// New returns a Resolver. Either collaborator may be nil, in which case the
// paths depending on it resolve to empty strings.
func New(handles HandleResolver, translator PathTranslator) *Resolver {
	return &Resolver{
		handles:    handles,
		translator: translator,
	}
}

// RootPath returns the kernel path of the record's root directory, or an
// empty string when the record has no root or the handle can't be resolved
func (r *Resolver) RootPath(oa *native.ObjectAttributes) string {
	if oa == nil || !oa.HasRoot() || r.handles == nil {
		return ""
	}
	path, err := r.handles.KernelPathFromHandle(oa.RootDirectory)
	if err != nil {
		return ""
	}
	return path
}

// KernelPath returns the fully qualified kernel path of the record
func (r *Resolver) KernelPath(oa *native.ObjectAttributes) string {
	if oa == nil {
		return ""
	}
	return joinKernelPath(r.RootPath(oa), oa.ObjectName())
}

// OsPath returns the user visible path of the record
func (r *Resolver) OsPath(oa *native.ObjectAttributes) string {
	if oa == nil {
		return ""
	}
	root := r.RootPath(oa)
	name := oa.ObjectName()
	return r.osPath(root, joinKernelPath(root, name), name)
}

// Resolve returns every path of the record, querying the root handle once
func (r *Resolver) Resolve(oa *native.ObjectAttributes) Paths {
	if oa == nil {
		return Paths{}
	}
	root := r.RootPath(oa)
	name := oa.ObjectName()
	kernel := joinKernelPath(root, name)
	return Paths{
		Root:   root,
		Kernel: kernel,
		Os:     r.osPath(root, kernel, name),
	}
}

func (r *Resolver) osPath(root, kernel string, name native.UnicodeString) string {
	if root == "" && name.IsOsPath() {
		return string(name.WithoutPrefix())
	}
	if kernel == "" || r.translator == nil {
		return ""
	}
	path, err := r.translator.OsPathFromKernelPath(kernel)
	if err != nil {
		return ""
	}
	return path
}

// joinKernelPath appends name to root, inserting a separator only when the
// name doesn't start with one
func joinKernelPath(root string, name native.UnicodeString) string {
	if root == "" {
		return string(name)
	}
	if name == "" {
		return root
	}

	rootHasSep := strings.HasSuffix(root, `\`)
	switch {
	case name.IsKernelPath() && rootHasSep:
		return root + string(name[1:])
	case name.IsKernelPath() || rootHasSep:
		return root + string(name)
	default:
		return root + `\` + string(name)
	}
}
