// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package subcommands holds the subcommands of sandbox-probe
package subcommands

import (
	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/command"
	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/subcommands/resolve"
	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/subcommands/selftest"
)

// ProbeSubcommands returns SubcommandFactories for the subcommands supported
// by sandbox-probe
func ProbeSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		selftest.Commands,
		resolve.Commands,
	}
}
