// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/dxc"
)

var linkOpts = &linkOptions{}

type linkOptions struct {
	Entry   string
	Profile string
	Output  string
	Args    []string
}

var linkCommand = &cobra.Command{
	Use:   "link <library.dxil>...",
	Short: "Link shader libraries into a single shader",
	Long: `Link libraries compiled with a lib_6_x profile. Each library is registered
under its file name and linked in the order given.

Usage examples:

	dxcc link -T ps_6_3 -E main -o shader.dxil lighting.dxil material.dxil
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDxc()
		if err != nil {
			return err
		}
		defer d.Close()

		lib, err := d.CreateLibrary()
		if err != nil {
			return err
		}
		defer lib.Release()

		l, err := d.CreateLinker()
		if err != nil {
			return err
		}
		defer l.Release()

		names := make([]string, 0, len(args))
		for _, path := range args {
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			blob, err := lib.CreateBlobWithEncoding(data)
			if err != nil {
				return err
			}
			name := filepath.Base(path)
			err = l.RegisterLibrary(name, blob)
			blob.Release()
			if err != nil {
				return err
			}
			names = append(names, name)
		}

		r, err := l.Link(linkOpts.Entry, linkOpts.Profile, names, linkOpts.Args)
		out, err := resultBytes(r, err, dxc.ErrCompile)
		if err != nil {
			return err
		}
		return writeOutput(cmd, linkOpts.Output, out)
	},
}

func init() {
	flags := linkCommand.Flags()
	flags.StringVarP(&linkOpts.Entry, "entry", "E", "main",
		"Entry point name")
	flags.StringVarP(&linkOpts.Profile, "target", "T", "",
		"Target profile, such as ps_6_3")
	flags.StringVarP(&linkOpts.Output, "output", "o", "",
		"Output file. Writes to standard output if empty.")
	flags.StringArrayVar(&linkOpts.Args, "arg", nil,
		"Extra linker argument. May be repeated.")
	_ = linkCommand.MarkFlagRequired("target")
}
