// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"testing"

	"github.com/gazed/meshfile/math/lin"
)

func TestMeshAddVertexExpandsBounds(t *testing.T) {
	m := NewMesh("box")
	m.AddVertex(-1, -2, -3)
	m.AddVertex(4, 5, 6)
	vmin, vmax, ok := m.Bounds.Bounds()
	if !ok {
		t.Fatal("expected bounds after adding vertices")
	}
	want := lin.V3{X: -1, Y: -2, Z: -3}
	if vmin != want {
		t.Errorf("vmin = %v, want %v", vmin, want)
	}
	want = lin.V3{X: 4, Y: 5, Z: 6}
	if vmax != want {
		t.Errorf("vmax = %v, want %v", vmax, want)
	}
}

func TestMeshAddQuadSplitsIntoTwoTriangles(t *testing.T) {
	m := NewMesh("quad")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(1, 1, 0)
	m.AddVertex(0, 1, 0)
	m.AddQuad(0, 1, 2, 3)
	if m.NumFaces() != 2 {
		t.Fatalf("NumFaces() = %d, want 2", m.NumFaces())
	}
	if m.Faces[0].V != [3]int{0, 1, 2} || m.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("faces = %v, want (0,1,2) (0,2,3)", m.Faces)
	}
}

func TestMeshMaterialFallsBackToDefault(t *testing.T) {
	m := NewMesh("bare")
	if m.Material() == nil {
		t.Fatal("expected a non-nil default material")
	}
	mat := NewMaterial("custom")
	m.SetMaterial(mat)
	if m.Material() != mat {
		t.Error("SetMaterial did not stick")
	}
}

func TestMeshValidateCatchesBadFaceIndex(t *testing.T) {
	m := NewMesh("bad")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 5)
	if err := m.Validate(); err == nil {
		t.Error("expected error for out-of-range face index")
	}
}

func TestMeshValidateCatchesMismatchedAttributeLengths(t *testing.T) {
	m := NewMesh("bad")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	m.Normal = append(m.Normal, lin.V3{X: 0, Y: 0, Z: 1})
	if err := m.Validate(); err == nil {
		t.Error("expected error for normal count != vertex count")
	}
}

func TestMeshCloneIsIndependent(t *testing.T) {
	m := NewMesh("orig")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	clone := m.Clone()
	clone.Vertex[0].X = 99
	if m.Vertex[0].X == 99 {
		t.Error("Clone shared vertex storage with the original")
	}
	if clone.NumFaces() != m.NumFaces() {
		t.Errorf("clone NumFaces() = %d, want %d", clone.NumFaces(), m.NumFaces())
	}
}
