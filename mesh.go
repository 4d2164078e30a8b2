// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"fmt"

	"github.com/gazed/meshfile/math/lin"
)

// Face is an ordered triple of vertex indices into its owning Mesh.
type Face struct {
	V [3]int
}

// Mesh is a named record owning parallel per-vertex attribute arrays
// plus a face list. Vertex is required once the mesh has any data;
// Normal, Tangent, Texcoord and Color are optional but, when present,
// must each have the same length as Vertex (checked by Validate).
//
// A Mesh carries its own local-space bounding box and a weak reference
// to the Material that colours it (nil means DefaultMaterial). Per
// spec.md §3, a Mesh is owned exclusively by the MeshFile it was added
// to; Material is a non-owning (weak) reference.
type Mesh struct {
	Name     string
	Vertex   []lin.V3
	Normal   []lin.V3
	Tangent  []lin.V3
	Texcoord []lin.V2
	Color    []lin.V4
	Faces    []Face
	Bounds   AABox

	material *Material

	// builder holds in-progress Begin/End immediate-mode assembly
	// state. Kept out of the Mesh's steady-state fields, unlike the
	// teacher's void* udata slot, per spec.md §9's recommended clean
	// rewrite: the assembly state lives in its own scratch struct.
	builder *meshBuilder
}

// NewMesh returns an empty, detached Mesh named name with an inverted
// bounding box and the default material.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Bounds: NewAABox(), material: DefaultMaterial()}
}

// Material returns the mesh's material, or DefaultMaterial() if unset.
func (m *Mesh) Material() *Material {
	if m.material == nil {
		return DefaultMaterial()
	}
	return m.material
}

// SetMaterial assigns mat as the mesh's material reference.
func (m *Mesh) SetMaterial(mat *Material) { m.material = mat }

// NumVerts returns len(m.Vertex).
func (m *Mesh) NumVerts() int { return len(m.Vertex) }

// NumFaces returns len(m.Faces).
func (m *Mesh) NumFaces() int { return len(m.Faces) }

// AddVertex appends a vertex position, expanding the mesh's local bounds.
func (m *Mesh) AddVertex(x, y, z float32) int {
	v := lin.V3{X: x, Y: y, Z: z}
	m.Vertex = append(m.Vertex, v)
	m.Bounds.ExpandPoint(&v)
	return len(m.Vertex) - 1
}

// AddNormal appends a per-vertex normal.
func (m *Mesh) AddNormal(x, y, z float32) { m.Normal = append(m.Normal, lin.V3{X: x, Y: y, Z: z}) }

// AddTangent appends a per-vertex tangent.
func (m *Mesh) AddTangent(x, y, z float32) { m.Tangent = append(m.Tangent, lin.V3{X: x, Y: y, Z: z}) }

// AddTexcoord appends a per-vertex texture coordinate.
func (m *Mesh) AddTexcoord(u, v float32) { m.Texcoord = append(m.Texcoord, lin.V2{X: u, Y: v}) }

// AddColor appends a per-vertex color.
func (m *Mesh) AddColor(r, g, b, a float32) { m.Color = append(m.Color, lin.V4{X: r, Y: g, Z: b, W: a}) }

// AddTriangle appends a triangle face referencing vertex indices a, b, c.
func (m *Mesh) AddTriangle(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
}

// AddQuad appends a quad as two triangles, a,b,c and a,c,d, matching
// spec.md §3's Face definition (a quad is not a first-class primitive).
func (m *Mesh) AddQuad(a, b, c, d int) {
	m.AddTriangle(a, b, c)
	m.AddTriangle(a, c, d)
}

// Validate checks the invariants spec.md §8 requires after any mutation:
// attribute arrays are either empty or match Vertex's length, and every
// face index is in range.
func (m *Mesh) Validate() error {
	n := len(m.Vertex)
	for _, pair := range []struct {
		name string
		len  int
	}{
		{"normal", len(m.Normal)},
		{"tangent", len(m.Tangent)},
		{"texcoord", len(m.Texcoord)},
		{"color", len(m.Color)},
	} {
		if pair.len != 0 && pair.len != n {
			return fmt.Errorf("meshfile: mesh %q has %d %s entries, want 0 or %d", m.Name, pair.len, pair.name, n)
		}
	}
	for i, f := range m.Faces {
		for k, idx := range f.V {
			if idx < 0 || idx >= n {
				return fmt.Errorf("meshfile: mesh %q face %d vertex %d index %d out of range [0,%d)", m.Name, i, k, idx, n)
			}
		}
	}
	return nil
}

// HasNormals, HasTangents, HasTexcoords, HasColors report whether the
// corresponding optional attribute array has any entries.
func (m *Mesh) HasNormals() bool   { return len(m.Normal) > 0 }
func (m *Mesh) HasTangents() bool  { return len(m.Tangent) > 0 }
func (m *Mesh) HasTexcoords() bool { return len(m.Texcoord) > 0 }
func (m *Mesh) HasColors() bool    { return len(m.Color) > 0 }

// Clone returns a deep copy of m, detached from any meshfile ownership
// (the caller must AddMesh it). Used by ApplyTransform (see transform.go) to
// fold a shared mesh's per-node transform into independent copies.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:     m.Name,
		Vertex:   append([]lin.V3(nil), m.Vertex...),
		Normal:   append([]lin.V3(nil), m.Normal...),
		Tangent:  append([]lin.V3(nil), m.Tangent...),
		Texcoord: append([]lin.V2(nil), m.Texcoord...),
		Color:    append([]lin.V4(nil), m.Color...),
		Faces:    append([]Face(nil), m.Faces...),
		Bounds:   m.Bounds,
		material: m.material,
	}
}
