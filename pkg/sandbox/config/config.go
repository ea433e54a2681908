// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the typed configuration of the filesystem hooks
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	coreconfig "github.com/brucezhang80/MoE-Sandbox/pkg/config"
	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/hooks"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

// EntryPointConfig holds the settings of a single entry point
type EntryPointConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// FSHooksConfig mirrors the fs_hooks section
type FSHooksConfig struct {
	Enabled               bool
	FilterPrefix          string
	DiscardedPaths        []string
	EntryPoints           map[string]EntryPointConfig
	LogQueueSize          int
	VolumeCacheSize       int
	VolumeRefreshInterval time.Duration
	StatsdAddr            string
}

// Config holds the configuration of the sandbox
type Config struct {
	LogLevel string
	LogFile  string
	FSHooks  FSHooksConfig
}

// NewConfig builds the typed configuration from cfg
func NewConfig(cfg coreconfig.Config) (*Config, error) {
	c := &Config{
		LogLevel: cfg.GetString("log_level"),
		LogFile:  cfg.GetString("log_file"),
		FSHooks: FSHooksConfig{
			Enabled:               cfg.GetBool("fs_hooks.enabled"),
			FilterPrefix:          cfg.GetString("fs_hooks.filter_prefix"),
			DiscardedPaths:        cfg.GetStringSlice("fs_hooks.discarded_paths"),
			LogQueueSize:          cfg.GetInt("fs_hooks.log_queue_size"),
			VolumeCacheSize:       cfg.GetInt("fs_hooks.volume_cache_size"),
			VolumeRefreshInterval: cfg.GetDuration("fs_hooks.volume_refresh_interval"),
			StatsdAddr:            cfg.GetString("fs_hooks.statsd_addr"),
		},
	}

	entryPoints, err := decodeEntryPoints(cfg.AllSettings())
	if err != nil {
		return nil, err
	}
	c.FSHooks.EntryPoints = entryPoints

	log.Debugf("fs_hooks config: enabled=%t filter_prefix=%q discarded_paths=%v", c.FSHooks.Enabled, c.FSHooks.FilterPrefix, c.FSHooks.DiscardedPaths)
	return c, nil
}

// decodeEntryPoints decodes fs_hooks.entry_points. It goes through
// AllSettings, which merges the env vars bound to the nested keys.
func decodeEntryPoints(settings map[string]interface{}) (map[string]EntryPointConfig, error) {
	var section struct {
		FSHooks struct {
			EntryPoints map[string]EntryPointConfig `mapstructure:"entry_points"`
		} `mapstructure:"fs_hooks"`
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &section,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to create config decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrap(err, "unable to decode fs_hooks.entry_points")
	}
	return section.FSHooks.EntryPoints, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs *multierror.Error

	if _, err := log.LogLevelFromString(c.LogLevel); err != nil {
		errs = multierror.Append(errs, err)
	}

	fs := &c.FSHooks
	if strings.ContainsAny(fs.FilterPrefix, `\/`) {
		errs = multierror.Append(errs, fmt.Errorf("fs_hooks.filter_prefix must not contain a path separator: %q", fs.FilterPrefix))
	}
	if fs.LogQueueSize <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("fs_hooks.log_queue_size must be positive, got %d", fs.LogQueueSize))
	}
	if fs.VolumeCacheSize <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("fs_hooks.volume_cache_size must be positive, got %d", fs.VolumeCacheSize))
	}
	if fs.VolumeRefreshInterval < 0 {
		errs = multierror.Append(errs, fmt.Errorf("fs_hooks.volume_refresh_interval must not be negative, got %s", fs.VolumeRefreshInterval))
	}
	for name := range fs.EntryPoints {
		if _, err := hooks.ParseEntryPoint(name); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "fs_hooks.entry_points"))
		}
	}

	return errs.ErrorOrNil()
}

// DisabledEntryPoints returns the entry points switched off. Unknown names
// are ignored, Validate reports them.
func (c *Config) DisabledEntryPoints() []hooks.EntryPoint {
	var disabled []hooks.EntryPoint
	for _, ep := range hooks.AllEntryPoints() {
		for name, setting := range c.FSHooks.EntryPoints {
			if strings.EqualFold(name, ep.String()) && !setting.Enabled {
				disabled = append(disabled, ep)
				break
			}
		}
	}
	return disabled
}

// HandlerOpts returns the options of the hooks handler
func (c *Config) HandlerOpts() hooks.Opts {
	return hooks.Opts{
		FilterPrefix:   c.FSHooks.FilterPrefix,
		DiscardedPaths: c.FSHooks.DiscardedPaths,
		Disabled:       c.DisabledEntryPoints(),
	}
}
