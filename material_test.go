// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "testing"

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial("m")
	c := m.Attribute(AttrColor).Value
	if c.X != 0.7 || c.Y != 0.7 || c.Z != 0.7 || c.W != 1 {
		t.Errorf("default color = %v, want (0.7,0.7,0.7,1)", c)
	}
	if m.Attribute(AttrIOR).Value.X != 1.5 {
		t.Errorf("default IOR = %v, want 1.5", m.Attribute(AttrIOR).Value.X)
	}
	if m.Attribute(AttrAlpha).Value.X != 1 {
		t.Errorf("default alpha = %v, want 1", m.Attribute(AttrAlpha).Value.X)
	}
	if m.Attribute(AttrShininess).Value.X != 1 {
		t.Errorf("default shininess = %v, want 1", m.Attribute(AttrShininess).Value.X)
	}
	if m.Attribute(AttrMetallic).Value.X != 0 {
		t.Errorf("default metallic = %v, want 0", m.Attribute(AttrMetallic).Value.X)
	}
}

func TestSetScalarAndColorHelpers(t *testing.T) {
	m := NewMaterial("m")
	m.SetScalar(AttrRoughness, 0.25)
	if m.Attribute(AttrRoughness).Value.X != 0.25 {
		t.Errorf("SetScalar: roughness = %v, want 0.25", m.Attribute(AttrRoughness).Value.X)
	}

	m.SetColor3(AttrSpecular, 0.1, 0.2, 0.3)
	s := m.Attribute(AttrSpecular).Value
	if s.X != 0.1 || s.Y != 0.2 || s.Z != 0.3 {
		t.Errorf("SetColor3: specular = %v, want (0.1,0.2,0.3,*)", s)
	}

	m.SetColor4(AttrEmissive, 1, 2, 3, 4)
	e := m.Attribute(AttrEmissive).Value
	if e.X != 1 || e.Y != 2 || e.Z != 3 || e.W != 4 {
		t.Errorf("SetColor4: emissive = %v, want (1,2,3,4)", e)
	}
}

func TestDefaultMaterialIsSharedInstance(t *testing.T) {
	if DefaultMaterial() != DefaultMaterial() {
		t.Error("expected DefaultMaterial() to return the same shared instance every call")
	}
}

func TestEveryAttributeHasATextureMap(t *testing.T) {
	m := NewMaterial("m")
	for a := Attr(0); a < numAttrs; a++ {
		tm := m.Attribute(a).Map
		if tm.IsSet() {
			t.Errorf("attribute %d: expected an unset default texture map", a)
		}
		if tm.UFilt != Linear || tm.UWrap != Repeat {
			t.Errorf("attribute %d: texture map did not get NewTextureMap defaults", a)
		}
	}
}
