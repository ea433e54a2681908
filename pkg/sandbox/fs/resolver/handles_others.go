// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build !windows

package resolver

import "github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"

type unsupportedHandles struct{}

// NewHandleResolver returns the platform HandleResolver
func NewHandleResolver() HandleResolver {
	return unsupportedHandles{}
}

func (unsupportedHandles) KernelPathFromHandle(native.Handle) (string, error) {
	return "", ErrNotSupported
}
