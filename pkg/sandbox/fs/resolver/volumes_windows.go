// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package resolver

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// EnumerateVolumes maps the device name of every local drive to its letter
func EnumerateVolumes() (map[string]string, error) {
	buf := make([]uint16, 1024)
	n, err := windows.GetLogicalDriveStrings(uint32(len(buf)), &buf[0])
	if err != nil {
		return nil, errors.Wrap(err, "GetLogicalDriveStrings")
	}

	volumes := make(map[string]string)
	for _, drive := range splitMultiString(buf[:n]) {
		if len(drive) < 2 {
			continue
		}
		switch windows.GetDriveType(windows.StringToUTF16Ptr(drive)) {
		case windows.DRIVE_FIXED, windows.DRIVE_REMOVABLE, windows.DRIVE_CDROM, windows.DRIVE_RAMDISK:
		default:
			continue
		}

		letter := drive[:2]
		target := make([]uint16, 1024)
		if _, err := windows.QueryDosDevice(windows.StringToUTF16Ptr(letter), &target[0], uint32(len(target))); err != nil {
			continue
		}

		// \Device\HarddiskVolume1
		devname := windows.UTF16ToString(target)
		chunks := strings.Split(devname, `\`)
		if len(chunks) > 2 && strings.EqualFold(chunks[1], "device") {
			volumes[chunks[2]] = letter
		}
	}
	return volumes, nil
}

// splitMultiString splits a list of NUL terminated strings ending with an
// empty string
func splitMultiString(buf []uint16) []string {
	var out []string
	start := 0
	for i, c := range buf {
		if c != 0 {
			continue
		}
		if i == start {
			break
		}
		out = append(out, windows.UTF16ToString(buf[start:i]))
		start = i + 1
	}
	return out
}
