// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"strings"
	"sync"
	"testing"
)

var m = sync.Mutex{}

// Mock replaces the global configuration with a fresh one holding the
// defaults. It is restored when the test ends. Should only be used in tests.
func Mock(t testing.TB) Config {
	m.Lock()
	defer m.Unlock()

	original := Sandbox
	t.Cleanup(func() {
		m.Lock()
		defer m.Unlock()
		Sandbox = original
	})

	Sandbox = NewConfig("sandbox", "MOE", strings.NewReplacer(".", "_"))
	InitConfig(Sandbox)
	return Sandbox
}
