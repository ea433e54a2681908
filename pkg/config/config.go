// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the configuration store of the sandbox
package config

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/viper"
)

// Sandbox is the global configuration object
var Sandbox Config

// Config is a configuration store safe for concurrent use
type Config interface {
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	AllSettings() map[string]interface{}

	SetDefault(key string, value interface{})
	BindEnv(key string, envvars ...string)
	BindEnvAndSetDefault(key string, value interface{}, envvars ...string)

	SetConfigFile(path string)
	SetConfigType(in string)
	ConfigFileUsed() string
	ReadInConfig() error
	ReadConfig(in io.Reader) error
}

func init() {
	Sandbox = NewConfig("sandbox", "MOE", strings.NewReplacer(".", "_"))
	InitConfig(Sandbox)
}

// safeConfig wraps viper with a lock
type safeConfig struct {
	*viper.Viper
	sync.RWMutex
}

// NewConfig returns a new Config object
func NewConfig(name string, envPrefix string, envKeyReplacer *strings.Replacer) Config {
	c := &safeConfig{
		Viper: viper.New(),
	}
	c.Viper.SetTypeByDefaultValue(true)
	c.Viper.SetConfigName(name)
	c.Viper.SetEnvPrefix(envPrefix)
	if envKeyReplacer != nil {
		c.Viper.SetEnvKeyReplacer(envKeyReplacer)
	}
	return c
}

// GetString wraps Viper for concurrent access
func (c *safeConfig) GetString(key string) string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetString(key)
}

// GetBool wraps Viper for concurrent access
func (c *safeConfig) GetBool(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetBool(key)
}

// GetInt wraps Viper for concurrent access
func (c *safeConfig) GetInt(key string) int {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetInt(key)
}

// GetDuration wraps Viper for concurrent access
func (c *safeConfig) GetDuration(key string) time.Duration {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetDuration(key)
}

// GetStringSlice wraps Viper for concurrent access
func (c *safeConfig) GetStringSlice(key string) []string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetStringSlice(key)
}

// AllSettings wraps Viper for concurrent access
func (c *safeConfig) AllSettings() map[string]interface{} {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.AllSettings()
}

// SetDefault wraps Viper for concurrent access
func (c *safeConfig) SetDefault(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetDefault(key, value)
}

// BindEnv wraps Viper for concurrent access. Without envvars the variable
// is derived from the key, e.g. MOE_FS_HOOKS_ENABLED.
func (c *safeConfig) BindEnv(key string, envvars ...string) {
	c.Lock()
	defer c.Unlock()
	_ = c.Viper.BindEnv(append([]string{key}, envvars...)...)
}

// BindEnvAndSetDefault sets the default value of a key and binds it to its
// env vars
func (c *safeConfig) BindEnvAndSetDefault(key string, value interface{}, envvars ...string) {
	c.SetDefault(key, value)
	c.BindEnv(key, envvars...)
}

// SetConfigFile wraps Viper for concurrent access
func (c *safeConfig) SetConfigFile(path string) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetConfigFile(path)
}

// SetConfigType wraps Viper for concurrent access
func (c *safeConfig) SetConfigType(in string) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetConfigType(in)
}

// ConfigFileUsed wraps Viper for concurrent access
func (c *safeConfig) ConfigFileUsed() string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.ConfigFileUsed()
}

// ReadInConfig wraps Viper for concurrent access
func (c *safeConfig) ReadInConfig() error {
	c.Lock()
	defer c.Unlock()
	return c.Viper.ReadInConfig()
}

// ReadConfig wraps Viper for concurrent access
func (c *safeConfig) ReadConfig(in io.Reader) error {
	c.Lock()
	defer c.Unlock()
	return c.Viper.ReadConfig(in)
}
