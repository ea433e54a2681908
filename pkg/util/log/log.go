// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package log is the process-wide leveled logger, backed by seelog
package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cihub/seelog"
)

var (
	logger *Logger

	// This buffer holds log lines sent to the logger before its
	// initialization. It should be very short lived: loading the
	// configuration is the only thing happening before the logger is set up.
	logsBuffer           = []func(){}
	bufferLogsBeforeInit = true
	bufferMutex          sync.Mutex
	defaultStackDepth    = 3
)

// Logger wraps a seelog logger with a level that can be changed at runtime
type Logger struct {
	inner seelog.LoggerInterface
	level LogLevel
	l     sync.RWMutex
}

// SetupLogger configures the logger singleton with a seelog interface and
// flushes every line logged so far
func SetupLogger(l seelog.LoggerInterface, level string) {
	lvl, err := LogLevelFromString(strings.ToLower(level))
	if err != nil {
		lvl = InfoLvl
	}

	logger = &Logger{
		inner: l,
		level: lvl,
	}

	// Callers go through the exported functions, which adds frames that
	// must be skipped to report the original caller.
	logger.inner.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck

	bufferMutex.Lock()
	bufferLogsBeforeInit = false
	defer bufferMutex.Unlock()
	for _, logLine := range logsBuffer {
		logLine()
	}
	logsBuffer = []func(){}
}

func addLogToBuffer(logHandle func()) {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()

	logsBuffer = append(logsBuffer, logHandle)
}

func (sw *Logger) changeLogLevel(level LogLevel) {
	sw.l.Lock()
	defer sw.l.Unlock()

	sw.level = level
}

func (sw *Logger) shouldLog(level LogLevel) bool {
	sw.l.RLock()
	shouldLog := level >= sw.level
	sw.l.RUnlock()

	return shouldLog
}

func (sw *Logger) getLogLevel() LogLevel {
	sw.l.RLock()
	defer sw.l.RUnlock()

	return sw.level
}

// write sends s to the inner logger at the given level
func (sw *Logger) write(level LogLevel, s string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	switch level {
	case TraceLvl:
		sw.inner.Trace(s)
	case DebugLvl:
		sw.inner.Debug(s)
	case InfoLvl:
		sw.inner.Info(s)
	case WarnLvl:
		return sw.inner.Warn(s)
	case ErrorLvl:
		return sw.inner.Error(s)
	case CriticalLvl:
		return sw.inner.Critical(s)
	}
	return nil
}

func ready() bool {
	return logger != nil && logger.inner != nil
}

func logFormat(level LogLevel, bufferFunc func(), format string, params ...interface{}) {
	if ready() && logger.shouldLog(level) {
		logger.write(level, fmt.Sprintf(format, params...)) //nolint:errcheck
	} else if bufferLogsBeforeInit && !ready() {
		addLogToBuffer(bufferFunc)
	}
}

func logFormatWithError(level LogLevel, bufferFunc func(), fallbackStderr bool, format string, params ...interface{}) error {
	msg := fmt.Sprintf(format, params...)
	if ready() && logger.shouldLog(level) {
		logger.write(level, msg) //nolint:errcheck
	} else if bufferLogsBeforeInit && !ready() {
		addLogToBuffer(bufferFunc)
		if fallbackStderr {
			fmt.Fprintf(os.Stderr, "%s: %s\n", level, msg)
		}
	}
	return errors.New(msg)
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	logFormat(TraceLvl, func() { Tracef(format, params...) }, format, params...)
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	logFormat(DebugLvl, func() { Debugf(format, params...) }, format, params...)
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	logFormat(InfoLvl, func() { Infof(format, params...) }, format, params...)
}

// Warnf logs with format at the warn level and returns an error containing
// the formatted message
func Warnf(format string, params ...interface{}) error {
	return logFormatWithError(WarnLvl, func() { Warnf(format, params...) }, false, format, params...)
}

// Errorf logs with format at the error level and returns an error
// containing the formatted message
func Errorf(format string, params ...interface{}) error {
	return logFormatWithError(ErrorLvl, func() { Errorf(format, params...) }, true, format, params...)
}

// Criticalf logs with format at the critical level and returns an error
// containing the formatted message
func Criticalf(format string, params ...interface{}) error {
	return logFormatWithError(CriticalLvl, func() { Criticalf(format, params...) }, true, format, params...)
}

// Log logs a preformatted message at the given level
func Log(level LogLevel, message string) {
	logFormat(level, func() { Log(level, message) }, "%s", message)
}

// Flush flushes the underlying inner log
func Flush() {
	if ready() {
		logger.inner.Flush()
	}
}

// GetLogLevel returns the current log level
func GetLogLevel() (LogLevel, error) {
	if ready() {
		return logger.getLogLevel(), nil
	}
	return InfoLvl, errors.New("cannot get loglevel: logger not initialized")
}

// ChangeLogLevel changes the current log level
func ChangeLogLevel(level string) error {
	if !ready() {
		return errors.New("cannot change loglevel: logger not initialized")
	}
	lvl, err := LogLevelFromString(strings.ToLower(level))
	if err != nil {
		return err
	}
	logger.changeLogLevel(lvl)
	return nil
}
