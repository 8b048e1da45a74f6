// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dxc

import (
	"fmt"
	"strconv"
	"strings"
)

// ShaderModel represents a DXIL Shader Model version.
type ShaderModel uint8

// Supported Shader Model versions.
const (
	// ShaderModel6_0 introduces wave intrinsics and DXIL.
	ShaderModel6_0 ShaderModel = iota

	// ShaderModel6_1 adds SV_ViewID and barycentrics.
	ShaderModel6_1

	// ShaderModel6_2 adds float16 and denorm control.
	ShaderModel6_2

	// ShaderModel6_3 adds DirectX Raytracing (DXR) and library targets.
	ShaderModel6_3

	// ShaderModel6_4 adds variable rate shading and library subobjects.
	ShaderModel6_4

	// ShaderModel6_5 adds mesh shaders and sampler feedback.
	ShaderModel6_5

	// ShaderModel6_6 adds 64-bit atomics and dynamic resources.
	ShaderModel6_6

	// ShaderModel6_7 adds advanced texture operations and quad wave ops.
	ShaderModel6_7

	// ShaderModel6_8 adds work graphs and extended command info.
	ShaderModel6_8

	// ShaderModel6_9 adds long vectors and shader execution reordering.
	ShaderModel6_9
)

// Highest is the newest supported shader model.
const Highest = ShaderModel6_9

// String returns a human-readable representation of the shader model.
// Example: "SM 6.0"
func (sm ShaderModel) String() string {
	major, minor := sm.version()
	return fmt.Sprintf("SM %d.%d", major, minor)
}

// ProfileSuffix returns the profile suffix for this model, such as "6_0".
func (sm ShaderModel) ProfileSuffix() string {
	major, minor := sm.version()
	return fmt.Sprintf("%d_%d", major, minor)
}

func (sm ShaderModel) version() (major, minor uint8) {
	if sm > Highest {
		return 6, 0
	}
	return 6, uint8(sm)
}

// Major returns the major version number.
func (sm ShaderModel) Major() uint8 {
	major, _ := sm.version()
	return major
}

// Minor returns the minor version number.
func (sm ShaderModel) Minor() uint8 {
	_, minor := sm.version()
	return minor
}

// Valid reports whether sm is a known shader model.
func (sm ShaderModel) Valid() bool {
	return sm <= Highest
}

// SupportsMeshShaders returns true if this shader model supports mesh and
// amplification shaders.
func (sm ShaderModel) SupportsMeshShaders() bool {
	return sm >= ShaderModel6_5
}

// SupportsLibraries returns true if this shader model can be compiled as a
// library for linking or ray tracing.
func (sm ShaderModel) SupportsLibraries() bool {
	return sm >= ShaderModel6_3
}

// SupportsFloat16 returns true if this shader model supports native float16.
// It still has to be enabled with -enable-16bit-types.
func (sm ShaderModel) SupportsFloat16() bool {
	return sm >= ShaderModel6_2
}

// Supports64BitAtomics returns true if this shader model supports 64-bit atomics.
func (sm ShaderModel) Supports64BitAtomics() bool {
	return sm >= ShaderModel6_6
}

// Stage is a shader stage as named by target profiles.
type Stage uint8

const (
	StageVertex Stage = iota
	StagePixel
	StageGeometry
	StageHull
	StageDomain
	StageCompute
	StageLibrary
	StageMesh
	StageAmplification
)

var stagePrefixes = [...]string{
	StageVertex:        "vs",
	StagePixel:         "ps",
	StageGeometry:      "gs",
	StageHull:          "hs",
	StageDomain:        "ds",
	StageCompute:       "cs",
	StageLibrary:       "lib",
	StageMesh:          "ms",
	StageAmplification: "as",
}

// Prefix returns the profile prefix, such as "ps".
func (s Stage) Prefix() string {
	if int(s) < len(stagePrefixes) {
		return stagePrefixes[s]
	}
	return ""
}

// String returns the profile prefix.
func (s Stage) String() string {
	if p := s.Prefix(); p != "" {
		return p
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// minModel returns the oldest shader model supporting the stage.
func (s Stage) minModel() ShaderModel {
	switch s {
	case StageMesh, StageAmplification:
		return ShaderModel6_5
	case StageLibrary:
		return ShaderModel6_3
	default:
		return ShaderModel6_0
	}
}

// Profile builds a target profile such as "cs_6_6".
func Profile(stage Stage, sm ShaderModel) (string, error) {
	if stage.Prefix() == "" {
		return "", NewError(ErrInvalidProfile, fmt.Sprintf("unknown stage %d", uint8(stage)))
	}
	if !sm.Valid() {
		return "", NewError(ErrInvalidProfile, fmt.Sprintf("unknown shader model %d", uint8(sm)))
	}
	if sm < stage.minModel() {
		return "", NewError(ErrInvalidProfile,
			fmt.Sprintf("%s shaders require %s, got %s", stage, stage.minModel(), sm))
	}
	return stage.Prefix() + "_" + sm.ProfileSuffix(), nil
}

// ParseProfile splits a target profile such as "ps_6_0" into its stage and
// shader model.
func ParseProfile(profile string) (Stage, ShaderModel, error) {
	parts := strings.Split(profile, "_")
	if len(parts) != 3 {
		return 0, 0, NewError(ErrInvalidProfile, fmt.Sprintf("malformed profile %q", profile))
	}

	stage := Stage(len(stagePrefixes))
	for i, p := range stagePrefixes {
		if p == parts[0] {
			stage = Stage(i)
			break
		}
	}
	if stage.Prefix() == "" {
		return 0, 0, NewError(ErrInvalidProfile, fmt.Sprintf("unknown stage %q in profile %q", parts[0], profile))
	}

	major, err := parseVersion(parts[1])
	if err != nil || major != 6 {
		return 0, 0, NewError(ErrInvalidProfile, fmt.Sprintf("unsupported major version in profile %q", profile))
	}
	minor, err := parseVersion(parts[2])
	if err != nil || ShaderModel(minor) > Highest {
		return 0, 0, NewError(ErrInvalidProfile, fmt.Sprintf("unsupported minor version in profile %q", profile))
	}

	sm := ShaderModel(minor)
	if sm < stage.minModel() {
		return 0, 0, NewError(ErrInvalidProfile,
			fmt.Sprintf("%s shaders require %s, got %s", stage, stage.minModel(), sm))
	}
	return stage, sm, nil
}

// parseVersion parses a version component written without sign or leading
// zeros, as the compiler spells them.
func parseVersion(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	if strconv.FormatUint(n, 10) != s {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
