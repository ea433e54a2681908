// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package selftest implements 'sandbox-probe selftest'.
package selftest

import (
	"fmt"
	"io"
	"strings"
	"unsafe"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/brucezhang80/MoE-Sandbox/cmd/sandbox-probe/command"
	sandboxconfig "github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/config"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/diagnostics"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/hooks"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/native"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/resolver"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/fxutil"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	// paths are the DOS paths to run through the intercepts
	paths []string

	// filterPrefix overrides fs_hooks.filter_prefix when overrideFilter is
	// set. An empty prefix records every name.
	filterPrefix   string
	overrideFilter bool

	// allowDelete runs NtDeleteFile as well
	allowDelete bool
}

// Commands returns a slice of subcommands for the 'sandbox-probe' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}

	cmd := &cobra.Command{
		Use:   "selftest <path> [<path>...]",
		Short: "Run paths through every filesystem intercept",
		Long: `Build object attributes for each path, call every intercepted entry point
through the hooks handler and print the diagnostic records they produce.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliParams.paths = args
			cliParams.overrideFilter = cmd.Flags().Changed("filter-prefix")
			return fxutil.OneShot(runSelftest,
				fx.Supply(cliParams, cliParams.GlobalParams),
				fx.Provide(command.NewSandboxConfig),
			)
		},
	}

	cmd.Flags().StringVarP(&cliParams.filterPrefix, "filter-prefix", "f", "", "override the object name prefix recorded by NtCreateFile and NtQueryAttributesFile, empty to record every name")
	cmd.Flags().BoolVar(&cliParams.allowDelete, "allow-delete", false, "call NtDeleteFile on the paths, deleting them")

	return []*cobra.Command{cmd}
}

func runSelftest(params *cliParams, cfg *sandboxconfig.Config) error {
	if !cfg.FSHooks.Enabled {
		return errors.New("fs_hooks are disabled in the configuration")
	}

	api, err := hooks.NewPlatformAPI()
	if err != nil {
		return errors.Wrap(err, "couldn't load the native API")
	}

	volumes, err := resolver.NewVolumeMap(resolver.EnumerateVolumes, cfg.FSHooks.VolumeCacheSize, cfg.FSHooks.VolumeRefreshInterval)
	if err != nil {
		return err
	}
	if err := volumes.Refresh(); err != nil {
		log.Warnf("couldn't enumerate volumes, OS paths will be empty: %v", err) //nolint:errcheck
	}

	opts := cfg.HandlerOpts()
	if params.overrideFilter {
		opts.FilterPrefix = params.filterPrefix
	}

	queue := diagnostics.NewQueue(cfg.FSHooks.LogQueueSize)
	h, err := hooks.NewHandler(api, hooks.StaticContext(queue), resolver.New(resolver.NewHandleResolver(), volumes), opts)
	if err != nil {
		return err
	}

	alloc := native.DefaultAllocator()
	for _, path := range params.paths {
		if err := probe(h, alloc, path, params.allowDelete); err != nil {
			return err
		}
	}

	printEntries(color.Output, queue)
	printStats(color.Output, h.Stats(), queue)

	if cfg.FSHooks.StatsdAddr != "" {
		return sendStats(cfg.FSHooks.StatsdAddr, h.Stats())
	}
	return nil
}

// probe calls every intercept with a record naming path
func probe(h *hooks.Handler, alloc native.Allocator, path string, allowDelete bool) error {
	oa, err := native.NewObjectAttributes(alloc, 0, ntPathOf(path), native.ObjCaseInsensitive)
	if err != nil {
		return errors.Wrapf(err, "couldn't build object attributes for %s", path)
	}
	defer oa.Dispose(alloc)

	if err := oa.SetSecurityQos(alloc, native.SecurityQos{
		Length:             uint32(unsafe.Sizeof(native.SecurityQos{})),
		ImpersonationLevel: native.SecurityImpersonation,
	}); err != nil {
		return err
	}

	var info native.FileBasicInformation
	h.NtQueryAttributesFile(oa, &info)

	// FILE_NETWORK_OPEN_INFORMATION
	var networkInfo [7]uint64
	h.NtQueryFullAttributesFile(oa, uintptr(unsafe.Pointer(&networkInfo)))

	var handle native.Handle
	var iosb native.IoStatusBlock
	share := native.ShareRead | native.ShareWrite | native.ShareDelete
	if h.NtCreateFile(&handle, native.GenericRead|native.Synchronize, oa, &iosb, nil, native.FileAttributeNormal,
		share, native.FileOpen, native.FileSynchronousIoNonalert, 0, 0).IsSuccess() {
		closeHandle(handle)
	}
	if h.NtOpenFile(&handle, native.FileReadAttributes|native.Synchronize, oa, &iosb, share, native.FileSynchronousIoNonalert).IsSuccess() {
		closeHandle(handle)
	}
	if h.NtOpenSymbolicLinkObject(&handle, native.GenericRead, oa).IsSuccess() {
		closeHandle(handle)
	}
	if h.NtOpenDirectoryObject(&handle, native.AccessMask(0x0001), oa).IsSuccess() {
		closeHandle(handle)
	}
	if allowDelete {
		h.NtDeleteFile(oa)
	}
	return nil
}

// ntPathOf routes DOS paths to the DOS device namespace. Kernel paths are
// kept as they are.
func ntPathOf(path string) string {
	name := native.UnicodeString(path)
	switch {
	case name.HasPrefix() || !name.IsOsPath():
		return path
	case strings.HasPrefix(path, `\\`):
		return `\??\UNC\` + path[2:]
	default:
		return `\??\` + path
	}
}

func printEntries(w io.Writer, queue *diagnostics.Queue) {
	for _, entry := range queue.Drain() {
		fmt.Fprintf(w, "%s %s %s\n",
			entry.Time.Format("15:04:05.000"),
			color.CyanString("%-5s", entry.Level),
			entry.Message,
		)
	}
}

func printStats(w io.Writer, stats *hooks.Stats, queue *diagnostics.Queue) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Entry point stats"))
	for _, ep := range hooks.AllEntryPoints() {
		s := stats.Get(ep)
		if s.Calls == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-26s calls=%d emitted=%d filtered=%d discarded=%d no_context=%d recovered_panics=%d\n",
			ep, s.Calls, s.Emitted, s.Filtered, s.Discarded, s.NoContext, s.RecoveredPanics)
	}
	if dropped := queue.Dropped(); dropped > 0 {
		fmt.Fprintln(w, color.YellowString("  %d records dropped, raise fs_hooks.log_queue_size", dropped))
	}
}

func sendStats(addr string, stats *hooks.Stats) error {
	client, err := statsd.New(addr)
	if err != nil {
		return errors.Wrapf(err, "couldn't create statsd client for %s", addr)
	}
	defer client.Close()

	if err := stats.SendStats(client); err != nil {
		return errors.Wrap(err, "couldn't send stats")
	}
	return client.Flush()
}
