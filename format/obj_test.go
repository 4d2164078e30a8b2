// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"strings"
	"testing"

	"github.com/gazed/meshfile"
)

const cubeOBJ = `
v -1 -1 -1
v  1 -1 -1
v  1  1 -1
v -1  1 -1
v -1 -1  1
v  1 -1  1
v  1  1  1
v -1  1  1
vn 0 0 -1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`

func TestLoadOBJBasicTriangles(t *testing.T) {
	mf := meshfile.New()
	h := newReadHandle([]byte(cubeOBJ))
	if err := LoadOBJ(mf, h, nil); err != nil {
		t.Fatal(err)
	}
	if mf.NumMeshes() != 1 {
		t.Fatalf("NumMeshes() = %d, want 1", mf.NumMeshes())
	}
	m := mf.Mesh(0)
	if m.NumVerts() != 4 {
		t.Errorf("NumVerts() = %d, want 4 (dedup across both faces)", m.NumVerts())
	}
	if m.NumFaces() != 2 {
		t.Errorf("NumFaces() = %d, want 2", m.NumFaces())
	}
}

const quadOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestLoadOBJQuadBecomesTwoTriangles(t *testing.T) {
	mf := meshfile.New()
	h := newReadHandle([]byte(quadOBJ))
	if err := LoadOBJ(mf, h, nil); err != nil {
		t.Fatal(err)
	}
	m := mf.Mesh(0)
	if m.NumFaces() != 2 {
		t.Fatalf("NumFaces() = %d, want 2 (one quad split)", m.NumFaces())
	}
	if m.NumVerts() != 4 {
		t.Errorf("NumVerts() = %d, want 4", m.NumVerts())
	}
}

// A face-vertex tuple already emitted in an earlier mesh is reused by
// index instead of being duplicated: the dedup map is per-file rather
// than per-mesh (it survives an "o" boundary).
const dedupOBJ = `
o Left
v 0 0 0
v 1 0 0
v 1 1 0
vt 0 0
vt 1 0
vt 1 1
f 1/1 2/2 3/3
o Right
v 0 0 0
v 0 1 0
vt 0.5 0.5
vt 0.5 1
f 1/1 4/4 5/5
`

func TestLoadOBJFaceVertexDedupIsPerFile(t *testing.T) {
	mf := meshfile.New()
	h := newReadHandle([]byte(dedupOBJ))
	if err := LoadOBJ(mf, h, nil); err != nil {
		t.Fatal(err)
	}
	if mf.NumMeshes() != 2 {
		t.Fatalf("NumMeshes() = %d, want 2", mf.NumMeshes())
	}
	left, right := mf.Mesh(0), mf.Mesh(1)
	if left.NumVerts() != 3 {
		t.Errorf("left.NumVerts() = %d, want 3", left.NumVerts())
	}
	// Right reuses tuple (1,1) from Left's dedup map (same
	// position+texcoord index pair) and only adds new vertices for the
	// new (4,4) and (5,5) tuples; a per-mesh map would have added three.
	if right.NumVerts() != 2 {
		t.Errorf("right.NumVerts() = %d, want 2 new vertices", right.NumVerts())
	}
}

func TestLoadOBJWithMtllib(t *testing.T) {
	mtl := "newmtl red\nKd 1 0 0\nNs 32\nd 0.5\n"
	opener := &memOpener{files: map[string][]byte{"scene.mtl": []byte(mtl)}}
	src := "mtllib scene.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl red\nf 1 2 3\n"
	mf := meshfile.New()
	h := newReadHandle([]byte(src))
	if err := LoadOBJ(mf, h, opener.open); err != nil {
		t.Fatal(err)
	}
	if mf.NumMaterials() != 1 {
		t.Fatalf("NumMaterials() = %d, want 1", mf.NumMaterials())
	}
	mat := mf.Material(0)
	alpha := mat.Attribute(meshfile.AttrAlpha).Value.X
	transmit := mat.Attribute(meshfile.AttrTransmit).Value.X
	if alpha != 0.5 {
		t.Errorf("alpha = %g, want 0.5", alpha)
	}
	if transmit != 0.5 {
		t.Errorf("transmit = %g, want 1-alpha = 0.5", transmit)
	}
	if mf.Mesh(0).Material() != mat {
		t.Error("mesh did not pick up usemtl material")
	}
}

func TestLoadOBJInvalid(t *testing.T) {
	mf := meshfile.New()
	h := newReadHandle([]byte("# just a comment\n"))
	if err := LoadOBJ(mf, h, nil); err == nil {
		t.Error("expected error loading a mesh-less obj stream")
	}
}

func TestSaveOBJRoundTrip(t *testing.T) {
	mf := meshfile.New()
	m := meshfile.NewMesh("tri")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2)
	mf.AddMesh(m)

	out := newWriteHandle()
	if err := SaveOBJ(mf, out, nil); err != nil {
		t.Fatal(err)
	}
	text := string(out.bytes())
	if !strings.Contains(text, "v 0 0 0") || !strings.Contains(text, "f 1 2 3") {
		t.Errorf("unexpected obj output:\n%s", text)
	}

	mf2 := meshfile.New()
	in := newReadHandle(out.bytes())
	if err := LoadOBJ(mf2, in, nil); err != nil {
		t.Fatal(err)
	}
	if mf2.NumMeshes() != 1 || mf2.Mesh(0).NumVerts() != 3 {
		t.Error("round-tripped obj did not reload as written")
	}
}
