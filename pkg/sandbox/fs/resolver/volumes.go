// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package resolver

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

const (
	devicePrefix = `\device\`
	mupPrefix    = `\device\mup\`
	uncPrefix    = `unc\`
)

// ErrUnknownVolume is returned when a kernel path names a device that isn't
// mounted on any drive letter
var ErrUnknownVolume = errors.New("unknown volume")

// VolumeEnumerator lists the mounted volumes as device name to drive
// letter pairs, e.g. "HarddiskVolume1" to "C:"
type VolumeEnumerator func() (map[string]string, error)

// VolumeMap translates kernel paths into drive letter and UNC paths
type VolumeMap struct {
	enumerate VolumeEnumerator
	devices   *lru.Cache[string, string]
	refreshes singleflight.Group
	// refreshing is set while an enumeration runs. Enumerating volumes can
	// re-enter the intercepts, and a miss during that window must not wait
	// for the enumeration it is part of.
	refreshing *atomic.Bool
	limiter    *rate.Limiter
}

// NewVolumeMap returns a VolumeMap caching up to size devices. Cache misses
// trigger a new enumeration at most once per refreshInterval.
func NewVolumeMap(enumerate VolumeEnumerator, size int, refreshInterval time.Duration) (*VolumeMap, error) {
	devices, err := lru.New[string, string](size)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create volume cache")
	}

	limit := rate.Inf
	if refreshInterval > 0 {
		limit = rate.Every(refreshInterval)
	}

	return &VolumeMap{
		enumerate:  enumerate,
		devices:    devices,
		refreshing: atomic.NewBool(false),
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Refresh enumerates the mounted volumes. Concurrent calls share a single
// enumeration. Lookups missing the cache while it runs fail with
// ErrUnknownVolume instead of waiting.
func (m *VolumeMap) Refresh() error {
	_, err, _ := m.refreshes.Do("refresh", func() (interface{}, error) {
		m.refreshing.Store(true)
		defer m.refreshing.Store(false)

		volumes, err := m.enumerate()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't enumerate volumes")
		}
		for device, drive := range volumes {
			m.devices.Add(strings.ToLower(device), drive)
		}
		log.Debugf("volume map refreshed with %d volumes", len(volumes))
		return nil, nil
	})
	return err
}

// Len returns the number of cached devices
func (m *VolumeMap) Len() int {
	return m.devices.Len()
}

// OsPathFromKernelPath implements PathTranslator
func (m *VolumeMap) OsPathFromKernelPath(kernelPath string) (string, error) {
	name := native.UnicodeString(kernelPath)

	if name.HasPrefix() {
		stripped := string(name.WithoutPrefix())
		if hasPrefixFold(stripped, uncPrefix) {
			return `\\` + stripped[len(uncPrefix):], nil
		}
		if native.UnicodeString(stripped).IsOsPath() {
			return stripped, nil
		}
		return "", errors.Errorf("unable to parse path %s", kernelPath)
	}

	if name.IsOsPath() {
		return kernelPath, nil
	}

	if hasPrefixFold(kernelPath, mupPrefix) {
		return `\\` + kernelPath[len(mupPrefix):], nil
	}

	if !hasPrefixFold(kernelPath, devicePrefix) {
		return "", errors.Errorf("unable to parse path %s", kernelPath)
	}

	device, rest, _ := strings.Cut(kernelPath[len(devicePrefix):], `\`)
	drive, err := m.driveOf(device)
	if err != nil {
		return "", errors.Wrapf(err, "unable to convert %s", kernelPath)
	}
	return drive + `\` + rest, nil
}

func (m *VolumeMap) driveOf(device string) (string, error) {
	key := strings.ToLower(device)
	if drive, ok := m.devices.Get(key); ok {
		return drive, nil
	}

	if m.refreshing.Load() || !m.limiter.Allow() {
		return "", ErrUnknownVolume
	}
	if err := m.Refresh(); err != nil {
		return "", err
	}

	if drive, ok := m.devices.Get(key); ok {
		return drive, nil
	}
	return "", ErrUnknownVolume
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
