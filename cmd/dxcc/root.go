// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/dxc/config"
	"github.com/gogpu/dxc/internal/logging"
)

var rootOpts = &rootOptions{}

type rootOptions struct {
	ConfigFile  string
	LibraryDir  string
	CacheDir    string
	IncludeDirs []string
	LogLevel    string
	LogFormat   string
}

// Resolved by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var RootCommand = &cobra.Command{
	Use:   "dxcc",
	Short: "Compile and inspect shaders with the DirectX Shader Compiler",
	Long: `dxcc drives the DirectX Shader Compiler libraries (dxcompiler and dxil)
without a C toolchain. Library locations come from the configuration file,
DXC_-prefixed environment variables or the global flags, in increasing
priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(rootOpts.ConfigFile)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("library-dir") {
			c.LibraryDir = rootOpts.LibraryDir
		}
		if flags.Changed("cache-dir") {
			c.CacheDir = rootOpts.CacheDir
		}
		if flags.Changed("log-level") {
			c.LogLevel = rootOpts.LogLevel
		}
		if flags.Changed("log-format") {
			c.LogFormat = rootOpts.LogFormat
		}
		c.IncludeDirs = append(c.IncludeDirs, rootOpts.IncludeDirs...)

		log, err := logging.Parse(os.Stderr, c.LogLevel, c.LogFormat)
		if err != nil {
			return err
		}
		cfg, logger = c, log
		logger.Debug("configuration resolved", "compiler", c.CompilerPath(), "validator", c.ValidatorPath(), "cache", c.CacheDir)
		return nil
	},
}

func init() {
	flags := RootCommand.PersistentFlags()
	flags.StringVar(&rootOpts.ConfigFile, "config", "",
		"Configuration file (YAML, TOML or JSON)")
	flags.StringVar(&rootOpts.LibraryDir, "library-dir", "",
		"Directory containing the dxcompiler and dxil libraries")
	flags.StringVar(&rootOpts.CacheDir, "cache-dir", "",
		"Directory of the compile cache. The cache is disabled when empty.")
	flags.StringArrayVarP(&rootOpts.IncludeDirs, "include", "I", nil,
		"Additional include directory. May be repeated.")
	flags.StringVar(&rootOpts.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: debug, info, warn or error")
	flags.StringVar(&rootOpts.LogFormat, "log-format", config.DefaultLogFormat,
		"Log format: text or json")

	RootCommand.AddCommand(
		compileCommand,
		preprocessCommand,
		validateCommand,
		disasmCommand,
		assembleCommand,
		linkCommand,
		optimizeCommand,
		passesCommand,
		partsCommand,
		versionCommand,
		cacheCommand,
	)
}
