// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "github.com/gazed/meshfile/math/lin"

// PrimitiveMode selects how Mesh.EmitVertex groups streamed vertices into
// faces during Begin/End assembly.
type PrimitiveMode int

const (
	Triangles PrimitiveMode = iota
	Quads
)

// meshBuilder holds the "current" normal/texcoord/color state an
// immediate-mode assembly front-end remembers between EmitVertex calls, plus
// the indices accumulated for the face currently being assembled.
//
// spec.md §9 flags this as the one piece of state the C source keeps in
// a mesh's opaque udata slot; this module instead gives it its own
// scratch struct, attached to the Mesh only between Begin and End.
type meshBuilder struct {
	mode    PrimitiveMode
	normal  lin.V3
	uv      lin.V2
	color   lin.V4
	pending []int
}

// Begin starts immediate-mode assembly of mode-shaped primitives on m.
// Call SetNormal/SetTexcoord/SetColor to set the "current" attribute values,
// then EmitVertex to emit a vertex with those values; End finishes assembly.
func (m *Mesh) Begin(mode PrimitiveMode) {
	m.builder = &meshBuilder{mode: mode, color: lin.V4{X: 1, Y: 1, Z: 1, W: 1}}
}

// SetNormal sets the current normal used by subsequent EmitVertex calls.
func (m *Mesh) SetNormal(x, y, z float32) {
	if m.builder != nil {
		m.builder.normal = lin.V3{X: x, Y: y, Z: z}
	}
}

// SetTexcoord sets the current texture coordinate used by subsequent
// EmitVertex calls.
func (m *Mesh) SetTexcoord(u, v float32) {
	if m.builder != nil {
		m.builder.uv = lin.V2{X: u, Y: v}
	}
}

// SetColor sets the current color used by subsequent EmitVertex calls.
func (m *Mesh) SetColor(r, g, b, a float32) {
	if m.builder != nil {
		m.builder.color = lin.V4{X: r, Y: g, Z: b, W: a}
	}
}

// EmitVertex appends a vertex at (x, y, z) using the current normal,
// texcoord and color, and emits a triangle (or, for Quads mode, two
// triangles) automatically once enough vertices have streamed in for
// one primitive.
func (m *Mesh) EmitVertex(x, y, z float32) {
	b := m.builder
	if b == nil {
		return
	}
	idx := m.AddVertex(x, y, z)
	m.AddNormal(b.normal.X, b.normal.Y, b.normal.Z)
	m.AddTexcoord(b.uv.X, b.uv.Y)
	m.AddColor(b.color.X, b.color.Y, b.color.Z, b.color.W)
	b.pending = append(b.pending, idx)

	need := 3
	if b.mode == Quads {
		need = 4
	}
	if len(b.pending) == need {
		if b.mode == Quads {
			m.AddQuad(b.pending[0], b.pending[1], b.pending[2], b.pending[3])
		} else {
			m.AddTriangle(b.pending[0], b.pending[1], b.pending[2])
		}
		b.pending = b.pending[:0]
	}
}

// End finishes immediate-mode assembly, discarding any incomplete
// trailing primitive.
func (m *Mesh) End() { m.builder = nil }
