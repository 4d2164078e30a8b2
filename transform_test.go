// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"testing"

	"github.com/gazed/meshfile/math/lin"
)

func TestProcessSynthesisesNormalsByDefault(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("tri"))
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	n := mf.AddNode(NewNode("n"))
	n.AddMesh(m)

	if err := mf.Process(0); err != nil {
		t.Fatal(err)
	}
	if !m.HasNormals() {
		t.Error("expected default processing to synthesise normals")
	}
}

func TestProcessNoProcSkipsEverything(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("tri"))
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	n := mf.AddNode(NewNode("n"))
	n.AddMesh(m)

	if err := mf.Process(NoProc); err != nil {
		t.Fatal(err)
	}
	if m.HasNormals() {
		t.Error("NoProc should skip normal synthesis")
	}
}

func TestProcessGenTangentsRequiresTexcoords(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("tri"))
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTexcoord(0, 0)
	m.AddTexcoord(1, 0)
	m.AddTexcoord(0, 1)
	m.AddTriangle(0, 1, 2)
	n := mf.AddNode(NewNode("n"))
	n.AddMesh(m)

	if err := mf.Process(GenTangents); err != nil {
		t.Fatal(err)
	}
	if !m.HasTangents() {
		t.Error("expected GenTangents to synthesise tangents for a textured mesh")
	}
}

func TestProcessApplyXformBakesAndResetsTransform(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("tri"))
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	n := mf.AddNode(NewNode("n"))
	n.AddMesh(m)
	t3 := lin.V3{X: 10, Y: 0, Z: 0}
	n.Matrix.SetTranslate(&t3)

	if err := mf.Process(ApplyXform); err != nil {
		t.Fatal(err)
	}
	if m.Vertex[0].X != 10 {
		t.Errorf("vertex 0 = %v, want baked translation of 10 on X", m.Vertex[0])
	}
	if !n.Matrix.IsIdentity() || !n.GlobalMatrix.IsIdentity() {
		t.Error("ApplyXform should reset node transforms to identity after baking")
	}
}

func TestApplyTransformClonesSharedMesh(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("shared"))
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)

	n1 := mf.AddNode(NewNode("left"))
	n1.AddMesh(m)
	t1 := lin.V3{X: -5, Y: 0, Z: 0}
	n1.Matrix.SetTranslate(&t1)

	n2 := mf.AddNode(NewNode("right"))
	n2.AddMesh(m)
	t2 := lin.V3{X: 5, Y: 0, Z: 0}
	n2.Matrix.SetTranslate(&t2)

	if err := mf.ApplyTransform(); err != nil {
		t.Fatal(err)
	}

	if n1.Meshes[0] == n2.Meshes[0] {
		t.Fatal("expected the second referencing node to end up with an independent mesh clone")
	}
	if n2.Meshes[0].Name != "shared#right" {
		t.Errorf("clone name = %q, want %q", n2.Meshes[0].Name, "shared#right")
	}
	if n1.Meshes[0].Vertex[0].X != -5 {
		t.Errorf("left mesh vertex 0 X = %v, want -5", n1.Meshes[0].Vertex[0].X)
	}
	if n2.Meshes[0].Vertex[0].X != 5 {
		t.Errorf("right mesh vertex 0 X = %v, want 5", n2.Meshes[0].Vertex[0].X)
	}
	if mf.FindMesh("shared#right") != n2.Meshes[0] {
		t.Error("expected the clone to be registered on the MeshFile via AddMesh")
	}
}

func TestBakeMeshTransformsNormalsByInverseTranspose(t *testing.T) {
	m := NewMesh("tri")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddNormal(0, 0, 1)
	m.AddNormal(0, 0, 1)
	m.AddNormal(0, 0, 1)
	m.AddTriangle(0, 1, 2)

	var global lin.M4
	global.Identity()
	s := lin.V3{X: 2, Y: 2, Z: 2}
	global.SetScale(&s)

	bakeMesh(m, &global)

	if m.Vertex[1].X != 2 {
		t.Errorf("scaled vertex X = %v, want 2", m.Vertex[1].X)
	}
	n := m.Normal[0]
	if !lin.Aeq(n.Len(), 1) {
		t.Errorf("baked normal length = %v, want 1 (re-normalised after transform)", n.Len())
	}
}
