// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/dxc/cache"
)

var errNoCacheDir = errors.New("no cache directory configured; set --cache-dir or DXC_CACHE_DIR")

var cacheCommand = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the compile cache",
}

var cacheStatsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached compiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Len()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", c.Path(), n)
		return nil
	},
}

var cachePurgeCommand = &cobra.Command{
	Use:   "purge",
	Short: "Remove every cached compile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Purge()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
		return nil
	},
}

func openCache() (*cache.Cache, error) {
	if cfg.CacheDir == "" {
		return nil, errNoCacheDir
	}
	return cache.Open(cfg.CacheDir)
}

func init() {
	cacheCommand.AddCommand(cacheStatsCommand, cachePurgeCommand)
}
