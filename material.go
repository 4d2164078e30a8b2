// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "github.com/gazed/meshfile/math/lin"

// Attr names a material attribute slot. Every Material owns exactly one
// Attribute per slot; unset slots take the defaults documented below.
type Attr int

const (
	AttrColor Attr = iota
	AttrSpecular
	AttrShininess
	AttrRoughness
	AttrMetallic
	AttrEmissive
	AttrReflect
	AttrTransmit
	AttrIOR
	AttrAlpha
	AttrBump
	numAttrs
)

// Attribute is a material attribute value plus the texture map that
// modulates it. Scalar attributes (Shininess, Roughness, Metallic,
// Reflect, Transmit, IOR, Alpha, Bump) use only Value.X; Color/Specular
// use Value.XYZ; Emissive uses the full vec4 when alpha-bearing.
type Attribute struct {
	Value lin.V4
	Map   TextureMap
}

// Material colours and lights a Mesh's surface. It owns one Attribute
// per Attr slot plus a name; meshes reference a Material weakly (a
// Mesh never outlives the MeshFile that owns both).
type Material struct {
	Name  string
	attrs [numAttrs]Attribute
}

// defaultMaterialInstance is the process-wide default referenced by any
// Mesh whose material was never set (spec.md §9 "two global defaults" —
// expressed here as a single shared *Material rather than a mutable
// package global's address, since Material is never mutated in place
// after construction by this library's own codecs).
var defaultMaterialInstance = NewMaterial("default material")

// DefaultMaterial returns the shared default material instance.
func DefaultMaterial() *Material { return defaultMaterialInstance }

// NewMaterial returns a Material named name with every attribute set to
// its documented default: grey color, IOR 1.5, alpha 1, shininess 1,
// everything else zero.
func NewMaterial(name string) *Material {
	m := &Material{Name: name}
	for a := Attr(0); a < numAttrs; a++ {
		m.attrs[a].Map = NewTextureMap()
	}
	m.attrs[AttrColor].Value = lin.V4{X: 0.7, Y: 0.7, Z: 0.7, W: 1}
	m.attrs[AttrIOR].Value = lin.V4{X: 1.5}
	m.attrs[AttrAlpha].Value = lin.V4{X: 1}
	m.attrs[AttrShininess].Value = lin.V4{X: 1}
	return m
}

// Attribute returns a pointer to the material's attribute slot a,
// letting a caller read or mutate its value and texture map in place.
func (m *Material) Attribute(a Attr) *Attribute { return &m.attrs[a] }

// SetScalar sets attribute a's scalar value (Value.X).
func (m *Material) SetScalar(a Attr, v float32) { m.attrs[a].Value.X = v }

// SetColor3 sets attribute a's RGB value, leaving alpha untouched.
func (m *Material) SetColor3(a Attr, r, g, b float32) {
	m.attrs[a].Value.X, m.attrs[a].Value.Y, m.attrs[a].Value.Z = r, g, b
}

// SetColor4 sets attribute a's full RGBA value.
func (m *Material) SetColor4(a Attr, r, g, b, w float32) {
	m.attrs[a].Value = lin.V4{X: r, Y: g, Z: b, W: w}
}
