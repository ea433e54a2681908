// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"fmt"
	"strings"

	"github.com/cihub/seelog"
)

const logFileMaxSize = 10 * 1024 * 1024         // 10MB
const logDateFormat = "2006-01-02 15:04:05 MST" // see time.Format for format syntax

// BuildLogger returns a seelog logger writing to the console and, when
// logFile is set, to a size-rolled file. It lets every level through: the
// level is enforced by the logger singleton so it can be changed at runtime.
func BuildLogger(logFile string) (seelog.LoggerInterface, error) {
	configTemplate := `<seelog minlevel="trace">
    <outputs formatid="common">
        <console />`
	if logFile != "" {
		configTemplate += `<rollingfile type="size" filename="%s" maxsize="%d" maxrolls="1" />`
	}
	configTemplate += `</outputs>
    <formats>
        <format id="common" format="%%Date(%s) | SANDBOX | %%LEVEL | (%%RelFile:%%Line) | %%Msg%%n"/>
    </formats>
</seelog>`

	var config string
	if logFile != "" {
		config = fmt.Sprintf(configTemplate, logFile, logFileMaxSize, logDateFormat)
	} else {
		config = fmt.Sprintf(configTemplate, logDateFormat)
	}

	return seelog.LoggerFromConfigAsString(config)
}

// Setup builds the seelog logger and installs it as the logger singleton
func Setup(logLevel, logFile string) error {
	if _, err := LogLevelFromString(strings.ToLower(logLevel)); err != nil {
		return err
	}
	l, err := BuildLogger(logFile)
	if err != nil {
		return err
	}
	SetupLogger(l, logLevel)
	return nil
}
