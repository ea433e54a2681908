// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/brucezhang80/MoE-Sandbox/pkg/sandbox/fs/hooks"
	"github.com/brucezhang80/MoE-Sandbox/pkg/util/log"
)

const (
	// DefaultLogQueueSize is the default capacity of the diagnostic queue
	DefaultLogQueueSize = 1024
	// DefaultVolumeCacheSize is the default number of device names cached
	DefaultVolumeCacheSize = 64
	// DefaultVolumeRefreshInterval is the minimum delay between two volume
	// refreshes caused by cache misses
	DefaultVolumeRefreshInterval = 30 * time.Second
)

// InitConfig registers the defaults of every setting
func InitConfig(config Config) {
	config.BindEnvAndSetDefault("log_level", "info")
	config.BindEnvAndSetDefault("log_file", "")

	config.BindEnvAndSetDefault("fs_hooks.enabled", true)
	config.BindEnvAndSetDefault("fs_hooks.filter_prefix", "D")
	config.BindEnvAndSetDefault("fs_hooks.discarded_paths", []string{})
	config.BindEnvAndSetDefault("fs_hooks.log_queue_size", DefaultLogQueueSize)
	config.BindEnvAndSetDefault("fs_hooks.volume_cache_size", DefaultVolumeCacheSize)
	config.BindEnvAndSetDefault("fs_hooks.volume_refresh_interval", DefaultVolumeRefreshInterval)
	config.BindEnvAndSetDefault("fs_hooks.statsd_addr", "")

	// fs_hooks.entry_points.<name>.enabled switches a single entry point off
	for _, ep := range hooks.AllEntryPoints() {
		config.BindEnvAndSetDefault("fs_hooks.entry_points."+ep.String()+".enabled", true)
	}
}

// Load reads the configuration file at path into config. An empty path
// keeps the defaults and the environment.
func Load(config Config, path string) error {
	if path == "" {
		return nil
	}

	config.SetConfigFile(path)
	if err := config.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "unable to load config file %s", path)
	}
	log.Infof("loaded configuration from %s", config.ConfigFileUsed())
	return nil
}
