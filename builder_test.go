// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "testing"

func TestBuilderTrianglesAutoEmitsFaces(t *testing.T) {
	m := NewMesh("built")
	m.Begin(Triangles)
	m.SetNormal(0, 0, 1)
	m.SetTexcoord(0, 0)
	m.EmitVertex(0, 0, 0)
	m.EmitVertex(1, 0, 0)
	m.EmitVertex(0, 1, 0)
	m.End()

	if m.NumVerts() != 3 || m.NumFaces() != 1 {
		t.Fatalf("NumVerts()=%d NumFaces()=%d, want 3, 1", m.NumVerts(), m.NumFaces())
	}
	if m.Faces[0].V != [3]int{0, 1, 2} {
		t.Errorf("face = %v, want (0,1,2)", m.Faces[0].V)
	}
	for _, n := range m.Normal {
		if n.X != 0 || n.Y != 0 || n.Z != 1 {
			t.Errorf("normal = %v, want (0,0,1)", n)
		}
	}
}

func TestBuilderQuadsEmitTwoTriangles(t *testing.T) {
	m := NewMesh("built")
	m.Begin(Quads)
	m.EmitVertex(0, 0, 0)
	m.EmitVertex(1, 0, 0)
	m.EmitVertex(1, 1, 0)
	m.EmitVertex(0, 1, 0)
	m.End()

	if m.NumFaces() != 2 {
		t.Fatalf("NumFaces() = %d, want 2", m.NumFaces())
	}
	if m.Faces[0].V != [3]int{0, 1, 2} || m.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("faces = %v, want (0,1,2) (0,2,3)", m.Faces)
	}
}

func TestBuilderDiscardsIncompletePrimitive(t *testing.T) {
	m := NewMesh("built")
	m.Begin(Triangles)
	m.EmitVertex(0, 0, 0)
	m.EmitVertex(1, 0, 0)
	m.End()

	if m.NumVerts() != 2 || m.NumFaces() != 0 {
		t.Fatalf("NumVerts()=%d NumFaces()=%d, want 2, 0", m.NumVerts(), m.NumFaces())
	}
}

func TestVertexBeforeBeginIsNoop(t *testing.T) {
	m := NewMesh("built")
	m.EmitVertex(1, 2, 3)
	if m.NumVerts() != 0 {
		t.Errorf("NumVerts() = %d, want 0 when EmitVertex is called before Begin", m.NumVerts())
	}
}
