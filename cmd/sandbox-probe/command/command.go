// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package command holds the top-level command of sandbox-probe
package command

import (
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	coreconfig "github.com/brucezhang80/MoE-Sandbox/pkg/config"
	sandboxconfig "github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/config"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// GlobalParams contains the values of global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the configuration file
	ConfFilePath string

	// LogLevel overrides log_level when set
	LogLevel string

	// NoColor disables color output
	NoColor bool
}

// SubcommandFactory returns a sub-command factory
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this command.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	var globalParams GlobalParams

	probeCmd := &cobra.Command{
		Use:   "sandbox-probe [command]",
		Short: "Exercise the sandbox filesystem hooks.",
		Long: `
sandbox-probe drives the filesystem intercepts of the sandbox outside of a
hooked process, and prints the diagnostic records they produce.`,
		SilenceUsage: true,
	}

	probeCmd.PersistentFlags().StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to the sandbox configuration file")
	probeCmd.PersistentFlags().StringVarP(&globalParams.LogLevel, "log-level", "l", "", "override the configured log level")
	probeCmd.PersistentFlags().BoolVarP(&globalParams.NoColor, "no-color", "n", false, "disable color output")

	probeCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if globalParams.NoColor {
			color.NoColor = true
		}
	}

	for _, factory := range subcommandFactories {
		for _, subcmd := range factory(&globalParams) {
			probeCmd.AddCommand(subcmd)
		}
	}

	return probeCmd
}

// NewSandboxConfig loads the configuration and sets the logger up. It is
// meant to be provided to fx.
func NewSandboxConfig(params *GlobalParams) (*sandboxconfig.Config, error) {
	if err := coreconfig.Load(coreconfig.Sandbox, params.ConfFilePath); err != nil {
		return nil, err
	}
	cfg, err := sandboxconfig.NewConfig(coreconfig.Sandbox)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	if err := log.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}

	if params.LogLevel != "" {
		if err := log.ChangeLogLevel(params.LogLevel); err != nil {
			return nil, errors.Wrap(err, "invalid log level")
		}
		level, err := log.GetLogLevel()
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level.String()
	}
	return cfg, nil
}
