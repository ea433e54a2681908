// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/command"
	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/subcommands"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

func main() {
	cmd := command.MakeCommand(subcommands.ProbeSubcommands())
	cmd.SilenceErrors = true

	err := cmd.Execute()
	log.Flush()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck
		os.Exit(-1)
	}
}
