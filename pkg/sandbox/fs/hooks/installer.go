// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/resolver"
)

// ErrNotSupported is returned when hooks can't be installed on this platform
var ErrNotSupported = resolver.ErrNotSupported

// ntdll is the module exporting every intercepted entry point
const ntdll = "ntdll.dll"

// Installer redirects an exported function to a detour. It returns an
// address that still reaches the original implementation.
type Installer interface {
	Install(module, export string, detour uintptr) (original uintptr, err error)
}

// OriginalSetter is implemented by NativeAPI implementations whose calls
// must go through the address returned by an Installer
type OriginalSetter interface {
	SetOriginal(ep EntryPoint, original uintptr)
}

// Install detours the given entry points, or every entry point when none is
// given, to the intercepts of h. The original addresses are handed to
// originals so the pass-through calls skip the detours. Entry points failing
// to install are reported together and left untouched.
func Install(installer Installer, h *Handler, originals OriginalSetter, entryPoints ...EntryPoint) error {
	if installer == nil || h == nil || originals == nil {
		return errors.New("installer, handler and original setter are required")
	}
	if len(entryPoints) == 0 {
		entryPoints = AllEntryPoints()
	}

	var errs *multierror.Error
	for _, ep := range entryPoints {
		detour, err := newDetour(h, ep)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "couldn't create detour for %s", ep))
			continue
		}

		original, err := installer.Install(ntdll, ep.String(), detour)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "couldn't install %s", ep))
			continue
		}
		originals.SetOriginal(ep, original)
	}
	return errs.ErrorOrNil()
}
