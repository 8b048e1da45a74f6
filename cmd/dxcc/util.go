// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gogpu/dxc"
)

// openDxc loads the compiler library with the resolved configuration.
func openDxc(opts ...dxc.Option) (*dxc.Dxc, error) {
	return dxc.New(append([]dxc.Option{dxc.WithConfig(cfg), dxc.WithLogger(logger)}, opts...)...)
}

// openDxil loads the validator library with the resolved configuration.
func openDxil() (*dxc.Dxil, error) {
	return dxc.NewDxil(dxc.WithConfig(cfg), dxc.WithLogger(logger))
}

// includeHandler searches the directory of input before the configured
// include directories.
func includeHandler(input string) *dxc.FileIncludeHandler {
	var dirs []string
	if input != "-" {
		dirs = append(dirs, filepath.Dir(input))
	}
	return &dxc.FileIncludeHandler{
		FS:   afero.NewOsFs(),
		Dirs: append(dirs, cfg.IncludeDirs...),
	}
}

// readInput reads path, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// writeOutput writes data to path, or to standard output when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("wrote output", "path", path, "bytes", len(data))
	return nil
}

// parseDefines turns NAME=VALUE strings into defines. A bare NAME has no
// value.
func parseDefines(defs []string) ([]dxc.Define, error) {
	out := make([]dxc.Define, 0, len(defs))
	for _, d := range defs {
		name, value, _ := strings.Cut(d, "=")
		if name == "" {
			return nil, fmt.Errorf("invalid define %q", d)
		}
		out = append(out, dxc.Define{Name: name, Value: value})
	}
	return out, nil
}

// resultBytes reads the output of an operation. A failed operation is
// turned into an *dxc.Error of kind carrying the diagnostics.
func resultBytes(r *dxc.OperationResult, err error, kind dxc.ErrorKind) ([]byte, error) {
	if err != nil {
		return nil, operationError(err, kind)
	}
	defer r.Release()

	b, err := r.Result()
	if err != nil {
		return nil, err
	}
	defer b.Release()
	return b.Bytes(), nil
}

func operationError(err error, kind dxc.ErrorKind) error {
	var opErr *dxc.OperationError
	if !errors.As(err, &opErr) {
		return err
	}
	defer opErr.Release()
	return &dxc.Error{Kind: kind, Code: opErr.Status, Message: errorText(opErr.Result)}
}

func errorText(r *dxc.OperationResult) string {
	eb, err := r.ErrorBuffer()
	if err != nil {
		return err.Error()
	}
	defer eb.Release()
	text, err := eb.Text()
	if err != nil {
		return err.Error()
	}
	return text
}
