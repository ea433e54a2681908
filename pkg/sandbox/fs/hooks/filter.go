// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package hooks

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
)

// matchesNameFilter reports whether a name passes the prefix filter: it must
// carry a DOS device prefix and its unprefixed form must start with prefix.
// An empty prefix lets every name through.
func matchesNameFilter(name native.UnicodeString, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !name.HasPrefix() {
		return false
	}
	stripped := string(name.WithoutPrefix())
	return len(stripped) >= len(prefix) && strings.EqualFold(stripped[:len(prefix)], prefix)
}

// discarders drops calls on OS paths matching one of the configured
// patterns. Patterns use '/' as separator and are matched case
// insensitively.
type discarders []glob.Glob

func newDiscarders(patterns []string) (discarders, error) {
	var out discarders
	for _, pattern := range patterns {
		g, err := glob.Compile(normalizePath(pattern), '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid discarded path pattern %q", pattern)
		}
		out = append(out, g)
	}
	return out, nil
}

func (d discarders) match(osPath string) bool {
	if len(d) == 0 || osPath == "" {
		return false
	}
	path := normalizePath(osPath)
	for _, g := range d {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
}
