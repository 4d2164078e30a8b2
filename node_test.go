// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import (
	"testing"

	"github.com/gazed/meshfile/math/lin"
)

func TestNewNodeHasIdentityMatrices(t *testing.T) {
	n := NewNode("root")
	if !n.Matrix.IsIdentity() || !n.GlobalMatrix.IsIdentity() {
		t.Error("expected a new node to start with identity matrices")
	}
}

func TestAddChildSetsParentAndDetachesPrior(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	a.AddChild(c)
	if c.Parent != a || len(a.Children) != 1 {
		t.Fatal("AddChild did not attach c to a")
	}
	b.AddChild(c)
	if c.Parent != b {
		t.Error("AddChild did not reparent c to b")
	}
	if len(a.Children) != 0 {
		t.Error("AddChild did not detach c from its prior parent a")
	}
}

func TestAddChildPanicsOnSelfParent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when a node is made its own child")
		}
	}()
	n := NewNode("n")
	n.AddChild(n)
}

func TestAddChildPanicsOnCycle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when introducing a child->ancestor cycle")
		}
	}()
	a := NewNode("a")
	b := NewNode("b")
	a.AddChild(b)
	b.AddChild(a)
}

func TestRemoveChildClearsParent(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	a.AddChild(b)
	a.RemoveChild(b)
	if b.Parent != nil {
		t.Error("RemoveChild left b.Parent set")
	}
	if len(a.Children) != 0 {
		t.Error("RemoveChild left b in a.Children")
	}
}

func TestUpdateTransformComposesWithParent(t *testing.T) {
	parent := NewNode("parent")
	pt := lin.V3{X: 2, Y: 0, Z: 0}
	parent.Matrix.SetTranslate(&pt)
	child := NewNode("child")
	ct := lin.V3{X: 0, Y: 3, Z: 0}
	child.Matrix.SetTranslate(&ct)
	parent.AddChild(child)

	parent.UpdateTransform()

	pos := child.GlobalMatrix.TranslatePart()
	if pos.X != 2 || pos.Y != 3 || pos.Z != 0 {
		t.Errorf("child global translation = %v, want (2,3,0)", pos)
	}
}

func TestWalkVisitsEveryDescendant(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.AddChild(a)
	a.AddChild(b)

	seen := map[string]bool{}
	root.Walk(func(n *Node) { seen[n.Name] = true })
	for _, name := range []string{"root", "a", "b"} {
		if !seen[name] {
			t.Errorf("Walk did not visit %q", name)
		}
	}
}

func TestAddMeshAndRemoveMesh(t *testing.T) {
	n := NewNode("n")
	m := NewMesh("m")
	n.AddMesh(m)
	if len(n.Meshes) != 1 {
		t.Fatalf("len(Meshes) = %d, want 1", len(n.Meshes))
	}
	n.RemoveMesh(m)
	if len(n.Meshes) != 0 {
		t.Errorf("len(Meshes) = %d, want 0 after RemoveMesh", len(n.Meshes))
	}
}
