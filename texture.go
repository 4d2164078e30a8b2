// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "github.com/gazed/meshfile/math/lin"

// FilterMode is a texture minification/magnification filter.
type FilterMode int

const (
	Nearest FilterMode = iota
	Linear
)

// WrapMode is a texture coordinate wrap mode.
type WrapMode int

const (
	Repeat WrapMode = iota
	Clamp
)

// TextureMap names an external texture asset and how it is sampled.
// Materials carry only the map's name (and, for cubemaps, six face
// names) — decoding the referenced image's pixels is out of scope for
// this library (spec.md §1 Non-goals).
type TextureMap struct {
	Name string    // set for a 2D map.
	Cube [6]string // any non-empty entry makes this a cubemap face set.
	// Cube face order follows the common cubemap convention: index 0-5
	// is +X (right), -X (left), +Y (top), -Y (bottom), +Z (front), -Z
	// (back).

	UFilt, VFilt FilterMode
	UWrap, VWrap WrapMode

	Offset lin.V3
	Scale  lin.V3
	Rot    float32
}

// NewTextureMap returns a TextureMap with the documented defaults:
// linear filtering, repeat wrap, zero offset, unit scale, no rotation.
func NewTextureMap() TextureMap {
	return TextureMap{
		UFilt: Linear, VFilt: Linear,
		UWrap: Repeat, VWrap: Repeat,
		Scale: lin.V3{X: 1, Y: 1, Z: 1},
	}
}

// IsSet reports whether the map names any texture (2D or cubemap face).
func (t *TextureMap) IsSet() bool {
	if t.Name != "" {
		return true
	}
	for _, f := range t.Cube {
		if f != "" {
			return true
		}
	}
	return false
}

// DefaultTextureMap is the process-wide default map described by
// spec.md §9 — re-expressed as a constructor rather than a mutable
// package-level global. Callers must not mutate the value in place if
// they intend to reuse it as "the default"; copy it first.
func DefaultTextureMap() TextureMap { return NewTextureMap() }
