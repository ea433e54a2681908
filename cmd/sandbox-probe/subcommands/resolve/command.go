// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package resolve implements 'sandbox-probe resolve'.
package resolve

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/command"
	sandboxconfig "github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/config"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/resolver"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/fxutil"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	// kernelPaths are the paths to translate
	kernelPaths []string
}

// Commands returns a slice of subcommands for the 'sandbox-probe' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}

	cmd := &cobra.Command{
		Use:   "resolve <kernel path> [<kernel path>...]",
		Short: "Translate kernel paths into OS paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cliParams.kernelPaths = args
			return fxutil.OneShot(runResolve,
				fx.Supply(cliParams, cliParams.GlobalParams),
				fx.Provide(command.NewSandboxConfig),
			)
		},
	}

	return []*cobra.Command{cmd}
}

func runResolve(params *cliParams, cfg *sandboxconfig.Config) error {
	volumes, err := resolver.NewVolumeMap(resolver.EnumerateVolumes, cfg.FSHooks.VolumeCacheSize, cfg.FSHooks.VolumeRefreshInterval)
	if err != nil {
		return err
	}
	return printTranslations(color.Output, volumes, params.kernelPaths)
}

// printTranslations prints one line per path. It fails when no path could be
// translated.
func printTranslations(w io.Writer, translator resolver.PathTranslator, kernelPaths []string) error {
	var translated int
	for _, kernelPath := range kernelPaths {
		osPath, err := translator.OsPathFromKernelPath(kernelPath)
		if err != nil {
			fmt.Fprintf(w, "%s -> %s\n", kernelPath, color.RedString("%v", err))
			continue
		}
		translated++
		fmt.Fprintf(w, "%s -> %s\n", kernelPath, color.GreenString("%s", osPath))
	}

	if translated == 0 {
		return fmt.Errorf("none of the %d paths could be translated", len(kernelPaths))
	}
	return nil
}
