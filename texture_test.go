// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "testing"

func TestNewTextureMapDefaults(t *testing.T) {
	tm := NewTextureMap()
	if tm.UFilt != Linear || tm.VFilt != Linear {
		t.Error("expected linear filtering by default")
	}
	if tm.UWrap != Repeat || tm.VWrap != Repeat {
		t.Error("expected repeat wrap by default")
	}
	if tm.Scale.X != 1 || tm.Scale.Y != 1 || tm.Scale.Z != 1 {
		t.Errorf("Scale = %v, want unit scale", tm.Scale)
	}
	if tm.IsSet() {
		t.Error("a fresh TextureMap should not be considered set")
	}
}

func TestTextureMapIsSetByName(t *testing.T) {
	tm := NewTextureMap()
	tm.Name = "diffuse.png"
	if !tm.IsSet() {
		t.Error("IsSet() should be true once Name is non-empty")
	}
}

func TestTextureMapIsSetByCubeFace(t *testing.T) {
	tm := NewTextureMap()
	tm.Cube[2] = "top.png"
	if !tm.IsSet() {
		t.Error("IsSet() should be true when any cube face is non-empty")
	}
}

func TestDefaultTextureMapIsIndependentCopy(t *testing.T) {
	a := DefaultTextureMap()
	a.Name = "mutated.png"
	b := DefaultTextureMap()
	if b.Name != "" {
		t.Error("DefaultTextureMap should return a fresh value each call")
	}
}
