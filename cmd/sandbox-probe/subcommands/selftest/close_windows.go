// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package selftest

import (
	"golang.org/x/sys/windows"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

func closeHandle(h native.Handle) {
	windows.CloseHandle(windows.Handle(h)) //nolint:errcheck
}
