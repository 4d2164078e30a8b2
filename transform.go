// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"log/slog"

	"github.com/gazed/meshfile/math/lin"
)

// ProcessFlags selects the post-load processing steps format.Load runs
// after a codec successfully populates a MeshFile, matching spec.md
// §4.E's "NOPROC / default / GEN_TANGENTS / APPLY_XFORM" flag word.
type ProcessFlags uint32

const (
	// GenTangents additionally synthesises tangents (which themselves
	// trigger normal synthesis first) for every mesh with texcoords.
	GenTangents ProcessFlags = 1 << iota
	// ApplyXform additionally bakes every node's transform into its
	// mesh vertices (see MeshFile.ApplyTransform) and resets transforms
	// to identity.
	ApplyXform
	// NoProc skips all processing below, including the default normal
	// synthesis; it is mutually dominant over GenTangents/ApplyXform.
	NoProc
)

// Process runs post-load processing on mf: it always recomputes node
// transforms and scene bounds first. Unless NoProc is set, it then
// synthesises normals for any mesh that doesn't already have them
// (spec.md's default behaviour), optionally synthesises tangents
// (GenTangents) and optionally bakes node transforms into mesh data
// (ApplyXform), recomputing transforms and bounds again afterward.
func (mf *MeshFile) Process(flags ProcessFlags) error {
	mf.UpdateTransforms()
	if flags&NoProc != 0 {
		return nil
	}
	for _, m := range mf.meshes {
		if !m.HasNormals() && len(m.Vertex) > 0 {
			m.CalcNormals()
		}
	}
	if flags&GenTangents != 0 {
		for _, m := range mf.meshes {
			if m.HasTexcoords() {
				m.CalcTangents()
			}
		}
	}
	if flags&ApplyXform != 0 {
		if err := mf.ApplyTransform(); err != nil {
			return err
		}
		mf.UpdateTransforms()
	}
	return nil
}

// ApplyTransform bakes every node's global transform into the vertex
// data of its referenced meshes (positions by the global matrix,
// normals/tangents by its inverse-transpose), then resets every node's
// Matrix and GlobalMatrix to identity.
//
// spec.md §9 flags that a mesh referenced by more than one node is
// underspecified by the source, which folds each referencing node's
// matrix into the same mesh data in turn. This implementation instead
// clones the mesh for every referencing node after the first (see
// mesh.go Clone), so each node ends up pointing at independently baked
// geometry — the "clone-on-write" option spec.md recommends; see
// DESIGN.md Open Questions.
func (mf *MeshFile) ApplyTransform() error {
	mf.UpdateTransforms()
	baked := make(map[*Mesh]bool, len(mf.meshes))
	unbaked := make(map[*Mesh]*Mesh, len(mf.meshes))

	for _, n := range mf.nodes {
		for i, m := range n.Meshes {
			target := m
			if baked[m] {
				// Clone the pre-bake copy: m itself already carries the
				// first referencing node's transform.
				clone := unbaked[m].Clone()
				clone.Name = m.Name + "#" + n.Name
				mf.AddMesh(clone)
				n.Meshes[i] = clone
				target = clone
			} else {
				unbaked[m] = m.Clone()
			}
			bakeMesh(target, &n.GlobalMatrix)
			baked[target] = true
		}
		n.Matrix.Identity()
		n.GlobalMatrix.Identity()
	}
	return nil
}

// bakeMesh transforms m's positions by global and its normals/tangents
// by global's inverse-transpose, then recomputes m's local bounds.
func bakeMesh(m *Mesh, global *lin.M4) {
	for i := range m.Vertex {
		m.Vertex[i].MultMat(&m.Vertex[i], global)
	}

	if len(m.Normal) > 0 || len(m.Tangent) > 0 {
		var inv, invT lin.M4
		if inv.Inverse(global) {
			invT.Transpose(&inv)
			for i := range m.Normal {
				m.Normal[i].MultMatDir(&m.Normal[i], &invT)
				m.Normal[i].Unit()
			}
			for i := range m.Tangent {
				m.Tangent[i].MultMatDir(&m.Tangent[i], &invT)
				m.Tangent[i].Unit()
			}
		} else {
			slog.Warn("meshfile: singular node matrix, normals left untransformed", "mesh", m.Name)
		}
	}

	m.Bounds = NewAABox()
	for i := range m.Vertex {
		m.Bounds.ExpandPoint(&m.Vertex[i])
	}
}
