// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "github.com/gazed/meshfile/math/lin"

// CalcNormals synthesises per-vertex normals from face geometry: each
// triangle's unit face normal (normalize(cross(v1-v0, v2-v0)), so every
// triangle weighs the same whatever its area) is accumulated into its
// three corner vertices, and every vertex normal
// is normalized afterward. Hard edges are not preserved; this always
// yields smooth shading. Any existing Normal data is discarded.
func (m *Mesh) CalcNormals() {
	m.Normal = make([]lin.V3, len(m.Vertex))
	for _, face := range m.Faces {
		v0, v1, v2 := m.Vertex[face.V[0]], m.Vertex[face.V[1]], m.Vertex[face.V[2]]
		var e1, e2, fn lin.V3
		e1.Sub(&v1, &v0)
		e2.Sub(&v2, &v0)
		fn.Cross(&e1, &e2)
		fn.Unit()
		for _, idx := range face.V {
			m.Normal[idx].Add(&m.Normal[idx], &fn)
		}
	}
	for i := range m.Normal {
		m.Normal[i].Unit()
	}
}

// CalcTangents synthesises per-vertex tangents from the mesh's texcoords,
// synthesising normals first if the mesh doesn't have any. For each
// triangle the tangent (the direction of increasing u in the texcoord
// plane) is derived from the position/texcoord differentials and
// accumulated per vertex; each vertex tangent is then orthonormalised
// against its vertex normal (Gram-Schmidt) and unit length. The sign of
// the tangent's handedness (bitangent = cross(normal, tangent) * w) is
// not tracked; a consumer that needs it can reconstruct it from winding.
//
// CalcTangents is a no-op if the mesh has no texcoords.
func (m *Mesh) CalcTangents() {
	if !m.HasTexcoords() {
		return
	}
	if !m.HasNormals() {
		m.CalcNormals()
	}
	accum := make([]lin.V3, len(m.Vertex))
	for _, face := range m.Faces {
		i0, i1, i2 := face.V[0], face.V[1], face.V[2]
		v0, v1, v2 := m.Vertex[i0], m.Vertex[i1], m.Vertex[i2]
		uv0, uv1, uv2 := m.Texcoord[i0], m.Texcoord[i1], m.Texcoord[i2]

		var e1, e2 lin.V3
		e1.Sub(&v1, &v0)
		e2.Sub(&v2, &v0)
		du1, dv1 := uv1.X-uv0.X, uv1.Y-uv0.Y
		du2, dv2 := uv2.X-uv0.X, uv2.Y-uv0.Y

		denom := du1*dv2 - du2*dv1
		if lin.AeqZ(denom) {
			continue // degenerate UV triangle; contributes nothing.
		}
		scale := 1 / denom
		t := lin.V3{
			X: scale * (dv2*e1.X - dv1*e2.X),
			Y: scale * (dv2*e1.Y - dv1*e2.Y),
			Z: scale * (dv2*e1.Z - dv1*e2.Z),
		}
		for _, idx := range face.V {
			accum[idx].Add(&accum[idx], &t)
		}
	}

	m.Tangent = make([]lin.V3, len(m.Vertex))
	for i := range accum {
		n := m.Normal[i]
		t := accum[i]
		// Gram-Schmidt: remove the component of t along n.
		var proj lin.V3
		proj.Scale(&n, n.Dot(&t))
		var ortho lin.V3
		ortho.Sub(&t, &proj)
		ortho.Unit()
		m.Tangent[i] = ortho
	}
}
