// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import (
	"strings"
	"unicode/utf16"
	"unsafe"
)

// dosPrefixes are the object-manager prefixes that route a name to the DOS
// device namespace
var dosPrefixes = []string{
	`\??\`,
	`\\?\`,
	`\DosDevices\`,
	`\GLOBAL??\`,
}

// UnicodeString is the text of a counted UNICODE_STRING
type UnicodeString string

func matchPrefix(s string) (string, bool) {
	for _, p := range dosPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return p, true
		}
	}
	return "", false
}

// HasPrefix reports whether the name starts with a DOS device prefix
func (s UnicodeString) HasPrefix() bool {
	_, ok := matchPrefix(string(s))
	return ok
}

// WithoutPrefix strips every leading DOS device prefix
func (s UnicodeString) WithoutPrefix() UnicodeString {
	str := string(s)
	for {
		p, ok := matchPrefix(str)
		if !ok {
			return UnicodeString(str)
		}
		str = str[len(p):]
	}
}

// IsKernelPath reports whether the name is in kernel namespace form
func (s UnicodeString) IsKernelPath() bool {
	return strings.HasPrefix(string(s), `\`)
}

// IsOsPath reports whether the unprefixed name is a drive letter or UNC path
func (s UnicodeString) IsOsPath() bool {
	str := string(s.WithoutPrefix())
	if isDrivePath(str) {
		return true
	}
	return strings.HasPrefix(str, `\\`) && len(str) > 2 && str[2] != '\\'
}

func isDrivePath(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0] | 0x20
	if c < 'a' || c > 'z' {
		return false
	}
	return len(s) == 2 || s[2] == '\\' || s[2] == '/'
}

func (s UnicodeString) String() string {
	return string(s)
}

// unicodeString mirrors the UNICODE_STRING header
type unicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        uintptr
}

const unicodeStringSize = unsafe.Sizeof(unicodeString{})

// maxUnicodeStringChars is the largest character count a UNICODE_STRING can
// describe
const maxUnicodeStringChars = 0xFFFF / 2

func (u *unicodeString) text() UnicodeString {
	if u.Buffer == 0 || u.Length < 2 {
		return ""
	}
	chars := unsafe.Slice((*uint16)(unsafe.Pointer(u.Buffer)), u.Length/2)
	return UnicodeString(utf16.Decode(chars))
}
