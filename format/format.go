// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package format holds the on-disk codecs (Wavefront OBJ+MTL, JTF, binary
// STL, 3DS, glTF 2.0) and the trial-load/explicit-save dispatcher that
// unifies them behind the github.com/gazed/meshfile scene model.
//
// Package format is part of the meshfile scene library.
package format

import (
	"github.com/gazed/meshfile/handle"
)

// Codec names a supported on-disk format, also used as the low byte of
// a Flags word for explicit Save format selection.
type Codec uint8

// Supported codecs. Zero (CodecAuto) means "let the dispatcher decide":
// trial order on Load, filename-suffix or OBJ default on Save.
const (
	CodecAuto Codec = iota
	Codec3DS
	CodecJTF
	CodecGLTF
	CodecSTL
	CodecOBJ
)

func (c Codec) String() string {
	switch c {
	case Codec3DS:
		return "3ds"
	case CodecJTF:
		return "jtf"
	case CodecGLTF:
		return "gltf"
	case CodecSTL:
		return "stl"
	case CodecOBJ:
		return "obj"
	default:
		return "auto"
	}
}

// Flags is the single word controlling Load/Save behaviour, matching
// spec.md §6: the low 8 bits select a Codec explicitly (Save only; Load
// always trials every codec), the remaining bits select post-load
// processing steps.
type Flags uint32

const (
	codecMask Flags = 0xFF

	// FlagApplyXform bakes node transforms into mesh data after load
	// (meshfile.ApplyTransform).
	FlagApplyXform Flags = 1 << 8
	// FlagGenTangents synthesises tangents after load, in addition to
	// the default normal synthesis.
	FlagGenTangents Flags = 1 << 9
	// FlagNoProc skips all post-load processing, including default
	// normal synthesis. Dominant over FlagApplyXform/FlagGenTangents.
	FlagNoProc Flags = 1 << 10
)

// WithCodec returns f with its low byte set to select codec explicitly
// (meaningful for Save; Load ignores it and always trials every codec).
func (f Flags) WithCodec(c Codec) Flags { return (f &^ codecMask) | Flags(c) }

// Codec returns the codec explicitly selected by f's low byte.
func (f Flags) Codec() Codec { return Codec(f & codecMask) }

// OpenFunc opens a named asset (sidecar MTL, external glTF buffer, …)
// relative to wherever the caller's storage lives, for reading (write
// false) or writing (write true). It stands in for spec.md §4.A/§6's
// "open(path, mode)" handle-contract slot; nil means no sidecar files
// can be resolved (inhibiting sidecar MTL emission on Save, and
// external-reference resolution on Load, per spec.md §4.A).
type OpenFunc func(name string, write bool) (handle.Handle, error)
