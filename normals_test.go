// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"testing"

	"github.com/gazed/meshfile/math/lin"
)

func TestCalcNormalsFlatTriangle(t *testing.T) {
	m := NewMesh("flat")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	m.CalcNormals()

	if len(m.Normal) != 3 {
		t.Fatalf("len(Normal) = %d, want 3", len(m.Normal))
	}
	for i, n := range m.Normal {
		if !lin.Aeq(n.X, 0) || !lin.Aeq(n.Y, 0) || !lin.Aeq(n.Z, 1) {
			t.Errorf("normal %d = %v, want (0,0,1)", i, n)
		}
	}
}

func TestCalcNormalsDiscardsExisting(t *testing.T) {
	m := NewMesh("flat")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	m.AddNormal(1, 1, 1)
	m.AddNormal(1, 1, 1)
	m.AddNormal(1, 1, 1)
	m.CalcNormals()
	if m.Normal[0].X == 1 {
		t.Error("CalcNormals did not discard the prior normal data")
	}
}

func TestCalcTangentsNoopWithoutTexcoords(t *testing.T) {
	m := NewMesh("notex")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	m.CalcTangents()
	if m.HasTangents() {
		t.Error("expected no tangents to be synthesised without texcoords")
	}
}

func TestCalcTangentsSynthesisesNormalsFirst(t *testing.T) {
	m := NewMesh("textured")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTexcoord(0, 0)
	m.AddTexcoord(1, 0)
	m.AddTexcoord(0, 1)
	m.AddTriangle(0, 1, 2)

	m.CalcTangents()
	if !m.HasNormals() {
		t.Fatal("expected CalcTangents to synthesise normals first")
	}
	if !m.HasTangents() || len(m.Tangent) != 3 {
		t.Fatalf("len(Tangent) = %d, want 3", len(m.Tangent))
	}
	for i, tan := range m.Tangent {
		if !lin.Aeq(tan.Len(), 1) {
			t.Errorf("tangent %d length = %f, want ~1", i, tan.Len())
		}
	}
}

func TestCalcTangentsSkipsDegenerateUV(t *testing.T) {
	m := NewMesh("degenerate")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	// All three texcoords identical: the UV triangle has zero area.
	m.AddTexcoord(0, 0)
	m.AddTexcoord(0, 0)
	m.AddTexcoord(0, 0)
	m.AddTriangle(0, 1, 2)
	m.CalcTangents()
	for i, tan := range m.Tangent {
		if tan.X != 0 || tan.Y != 0 || tan.Z != 0 {
			t.Errorf("tangent %d = %v, want zero for a degenerate UV triangle", i, tan)
		}
	}
}
