// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"testing"

	"github.com/gazed/meshfile/math/lin"
)

func TestAddNodeEntersRootListOnlyWhenParentless(t *testing.T) {
	mf := New()
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	mf.AddNode(parent)
	mf.AddNode(child)

	if mf.NumNodes() != 2 {
		t.Fatalf("NumNodes() = %d, want 2", mf.NumNodes())
	}
	if mf.NumTopNodes() != 1 || mf.TopNode(0) != parent {
		t.Errorf("expected only parent in the top-level node list, got %d entries", mf.NumTopNodes())
	}
}

func TestFindByName(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("torso"))
	mat := mf.AddMaterial(NewMaterial("skin"))
	n := mf.AddNode(NewNode("body"))

	if mf.FindMesh("torso") != m {
		t.Error("FindMesh did not find the added mesh")
	}
	if mf.FindMaterial("skin") != mat {
		t.Error("FindMaterial did not find the added material")
	}
	if mf.FindNode("body") != n {
		t.Error("FindNode did not find the added node")
	}
	if mf.FindMesh("nope") != nil {
		t.Error("FindMesh should return nil for an unknown name")
	}
}

func TestClearResetsEverything(t *testing.T) {
	mf := New()
	mf.AddMesh(NewMesh("m"))
	mf.AddMaterial(NewMaterial("mat"))
	mf.AddNode(NewNode("n"))

	mf.Clear()
	if mf.NumMeshes() != 0 || mf.NumMaterials() != 0 || mf.NumNodes() != 0 || mf.NumTopNodes() != 0 {
		t.Error("Clear did not reset all entity counts to zero")
	}
	if _, _, err := mf.QueryBounds(); err == nil {
		t.Error("QueryBounds should error on an empty scene after Clear")
	}
}

func TestUpdateTransformsComputesWorldBounds(t *testing.T) {
	mf := New()
	m := mf.AddMesh(NewMesh("m"))
	m.AddVertex(1, 1, 1)
	n := mf.AddNode(NewNode("n"))
	n.AddMesh(m)
	t3 := lin.V3{X: 5, Y: 0, Z: 0}
	n.Matrix.SetTranslate(&t3)

	mf.UpdateTransforms()
	vmin, vmax, err := mf.QueryBounds()
	if err != nil {
		t.Fatal(err)
	}
	if vmin != [3]float32{6, 1, 1} || vmax != [3]float32{6, 1, 1} {
		t.Errorf("bounds = %v..%v, want (6,1,1)..(6,1,1)", vmin, vmax)
	}
}

func TestResolveAssetTriesSceneDirThenBare(t *testing.T) {
	mf := New()
	mf.SetPath("/scene/dir/model.obj")

	exists := map[string]bool{"/scene/dir/tex.png": true}
	path, ok := mf.ResolveAsset("tex.png", func(p string) bool { return exists[p] })
	if !ok || path != "/scene/dir/tex.png" {
		t.Errorf("ResolveAsset = %q, %v, want the scene-directory candidate", path, ok)
	}
}

func TestResolveAssetCachesResult(t *testing.T) {
	mf := New()
	mf.SetPath("/scene/dir/model.obj")

	calls := 0
	exists := func(p string) bool {
		calls++
		return p == "tex.png"
	}
	mf.ResolveAsset("tex.png", exists)
	mf.ResolveAsset("tex.png", exists)
	if calls != 2 {
		t.Errorf("exists was called %d times, want 2 (both candidates on the first lookup, none on the cached second)", calls)
	}
}

func TestResolveAssetMissingReturnsFalse(t *testing.T) {
	mf := New()
	mf.SetPath("/scene/dir/model.obj")
	_, ok := mf.ResolveAsset("missing.png", func(string) bool { return false })
	if ok {
		t.Error("expected ResolveAsset to fail when neither candidate exists")
	}
}
