// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"fmt"

	"github.com/cihub/seelog"
)

// LogLevel is the severity of a log line
type LogLevel seelog.LogLevel

// Log levels, matching seelog's
const (
	TraceLvl    = LogLevel(seelog.TraceLvl)
	DebugLvl    = LogLevel(seelog.DebugLvl)
	InfoLvl     = LogLevel(seelog.InfoLvl)
	WarnLvl     = LogLevel(seelog.WarnLvl)
	ErrorLvl    = LogLevel(seelog.ErrorLvl)
	CriticalLvl = LogLevel(seelog.CriticalLvl)
	Off         = LogLevel(seelog.Off)
)

// String returns the seelog name of the level
func (l LogLevel) String() string {
	return seelog.LogLevel(l).String()
}

// LogLevelFromString parses a seelog level name ("trace", "debug", "info",
// "warn", "error", "critical" or "off"). "warning" is accepted as well.
func LogLevelFromString(level string) (LogLevel, error) {
	if level == "warning" {
		level = "warn"
	}
	lvl, ok := seelog.LogLevelFromString(level)
	if !ok {
		return InfoLvl, fmt.Errorf("unknown log level: %s", level)
	}
	return LogLevel(lvl), nil
}
