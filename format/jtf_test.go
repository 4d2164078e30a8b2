// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"testing"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/handle"
)

// One face worth of zeroed floats: pos, norm, uv for each of 3 vertices
// (3 * (3+3+2) = 24 floats = 96 bytes), per spec.md §8 scenario 1.
func jtfOneZeroFace() []byte {
	h := newWriteHandle()
	h.Write([]byte{'J', 'T', 'F', '!'})
	writeU32Bytes(h, 0)
	writeU32Bytes(h, 1)
	for i := 0; i < 24; i++ {
		writeF32Bytes(h, 0)
	}
	return h.bytes()
}

func writeU32Bytes(h *memHandle, v uint32)  { _ = handle.WriteU32(h, v) }
func writeF32Bytes(h *memHandle, v float32) { _ = handle.WriteF32(h, v) }

func TestLoadJTFOneZeroedFace(t *testing.T) {
	mf := meshfile.New()
	h := newReadHandle(jtfOneZeroFace())
	if err := LoadJTF(mf, h, nil); err != nil {
		t.Fatal(err)
	}
	if mf.NumMeshes() != 1 || mf.NumNodes() != 1 {
		t.Fatalf("NumMeshes()=%d NumNodes()=%d, want 1, 1", mf.NumMeshes(), mf.NumNodes())
	}
	m := mf.Mesh(0)
	if m.NumVerts() != 3 || m.NumFaces() != 1 {
		t.Fatalf("NumVerts()=%d NumFaces()=%d, want 3, 1", m.NumVerts(), m.NumFaces())
	}
	if m.Faces[0].V != [3]int{0, 1, 2} {
		t.Errorf("face indices = %v, want (0,1,2)", m.Faces[0].V)
	}
}

func TestLoadJTFBadMagic(t *testing.T) {
	mf := meshfile.New()
	h := newReadHandle([]byte("NOPE0000"))
	if err := LoadJTF(mf, h, nil); err == nil {
		t.Error("expected error on bad magic")
	}
}

func TestJTFRoundTrip(t *testing.T) {
	mf := meshfile.New()
	m := meshfile.NewMesh("tri")
	m.AddVertex(1, 2, 3)
	m.AddVertex(4, 5, 6)
	m.AddVertex(7, 8, 9)
	m.AddNormal(0, 1, 0)
	m.AddNormal(0, 1, 0)
	m.AddNormal(0, 1, 0)
	m.AddTexcoord(0, 0)
	m.AddTexcoord(1, 0)
	m.AddTexcoord(1, 1)
	m.AddTriangle(0, 1, 2)
	mf.AddMesh(m)

	out := newWriteHandle()
	if err := SaveJTF(mf, out, nil); err != nil {
		t.Fatal(err)
	}

	mf2 := meshfile.New()
	in := newReadHandle(out.bytes())
	if err := LoadJTF(mf2, in, nil); err != nil {
		t.Fatal(err)
	}
	m2 := mf2.Mesh(0)
	if m2.NumVerts() != 3 {
		t.Fatalf("NumVerts() = %d, want 3", m2.NumVerts())
	}
	for i := range m.Vertex {
		if m.Vertex[i] != m2.Vertex[i] {
			t.Errorf("vertex %d = %v, want %v", i, m2.Vertex[i], m.Vertex[i])
		}
		if m.Normal[i] != m2.Normal[i] {
			t.Errorf("normal %d = %v, want %v", i, m2.Normal[i], m.Normal[i])
		}
		if m.Texcoord[i] != m2.Texcoord[i] {
			t.Errorf("texcoord %d = %v, want %v", i, m2.Texcoord[i], m.Texcoord[i])
		}
	}
}
