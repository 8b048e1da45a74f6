// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config resolves where the compiler libraries live and how the
// library and the dxcc command behave.
//
// Values come from, in increasing priority: built-in defaults, an optional
// configuration file (YAML, TOML or JSON) and DXC_-prefixed environment
// variables such as DXC_LIBRARY_DIR.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/gogpu/dxc/loader"
)

const (
	// DefaultEnvPrefix prefixes every environment variable.
	DefaultEnvPrefix = "DXC"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultConfig holds the built-in values.
var DefaultConfig = Config{
	CompilerLibrary:  loader.CompilerLibrary,
	ValidatorLibrary: loader.ValidatorLibrary,
	LogLevel:         DefaultLogLevel,
	LogFormat:        DefaultLogFormat,
}

// Config is the resolved configuration.
type Config struct {
	// LibraryDir is searched for both libraries. Empty defers to the
	// platform loader's search path.
	LibraryDir       string `json:"library_dir,omitempty"       mapstructure:"library_dir"`
	CompilerLibrary  string `json:"compiler_library,omitempty"  mapstructure:"compiler_library"`
	ValidatorLibrary string `json:"validator_library,omitempty" mapstructure:"validator_library"`

	// IncludeDirs are searched by the default include handler after the
	// requested name itself.
	IncludeDirs []string `json:"include_dirs,omitempty" mapstructure:"include_dirs"`

	// CacheDir enables the compile cache when set.
	CacheDir string `json:"cache_dir,omitempty" mapstructure:"cache_dir"`

	LogLevel  string `json:"log_level,omitempty"  mapstructure:"log_level"`
	LogFormat string `json:"log_format,omitempty" mapstructure:"log_format"`
}

// Default returns a copy of DefaultConfig.
func Default() *Config {
	c := DefaultConfig
	return &c
}

// CompilerPath is the path the compiler library is opened from.
func (c *Config) CompilerPath() string {
	return loader.Path(c.LibraryDir, c.CompilerLibrary)
}

// ValidatorPath is the path the validator library is opened from.
func (c *Config) ValidatorPath() string {
	return loader.Path(c.LibraryDir, c.ValidatorLibrary)
}

// Load resolves the configuration. file may be empty.
func Load(file string) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AutomaticEnv()

	_ = v.BindEnv("library_dir")
	v.SetDefault("library_dir", DefaultConfig.LibraryDir)

	_ = v.BindEnv("compiler_library")
	v.SetDefault("compiler_library", DefaultConfig.CompilerLibrary)

	_ = v.BindEnv("validator_library")
	v.SetDefault("validator_library", DefaultConfig.ValidatorLibrary)

	_ = v.BindEnv("include_dirs")
	v.SetDefault("include_dirs", []string{})

	_ = v.BindEnv("cache_dir")
	v.SetDefault("cache_dir", "")

	_ = v.BindEnv("log_level")
	v.SetDefault("log_level", DefaultLogLevel)

	_ = v.BindEnv("log_format")
	v.SetDefault("log_format", DefaultLogFormat)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration %s: %w", file, err)
		}
	}

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}
