// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnicodeStringClassification(t *testing.T) {
	tests := []struct {
		name          UnicodeString
		hasPrefix     bool
		withoutPrefix UnicodeString
		isKernelPath  bool
		isOsPath      bool
	}{
		{`\??\C:\Windows`, true, `C:\Windows`, true, true},
		{`\\?\C:\Windows`, true, `C:\Windows`, true, true},
		{`\DosDevices\D:\data`, true, `D:\data`, true, true},
		{`\global??\d:`, true, `d:`, true, true},
		{`\??\\??\E:\x`, true, `E:\x`, true, true},
		{`\Device\HarddiskVolume1\Windows`, false, `\Device\HarddiskVolume1\Windows`, true, false},
		{`C:\Windows`, false, `C:\Windows`, false, true},
		{`\\server\share\f`, false, `\\server\share\f`, true, true},
		{`Alice\Documents`, false, `Alice\Documents`, false, false},
		{`\??\UNC\server\share`, true, `UNC\server\share`, true, false},
		{`1:\bad`, false, `1:\bad`, false, false},
		{``, false, ``, false, false},
	}

	for _, test := range tests {
		t.Run(string(test.name), func(t *testing.T) {
			assert.Equal(t, test.hasPrefix, test.name.HasPrefix())
			assert.Equal(t, test.withoutPrefix, test.name.WithoutPrefix())
			assert.Equal(t, test.isKernelPath, test.name.IsKernelPath())
			assert.Equal(t, test.isOsPath, test.name.IsOsPath())
		})
	}
}

func TestWithoutPrefixNeverReclassifies(t *testing.T) {
	names := []UnicodeString{
		`\??\C:\`, `\\?\\??\C:`, `\GLOBAL??\\DosDevices\X:`, `\??\`, `\Device\Mup\a`, `plain`,
	}
	for _, name := range names {
		stripped := name.WithoutPrefix()
		assert.False(t, stripped.HasPrefix(), "%q stripped to %q", name, stripped)
		assert.Equal(t, stripped, stripped.WithoutPrefix())
	}
}
