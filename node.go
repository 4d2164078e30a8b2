// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "github.com/gazed/meshfile/math/lin"

// Node is a named transform in the scene's node tree. Parent, Children
// and Meshes are all non-owning (weak) references — the owning MeshFile
// frees the underlying Node and Mesh values; a Node never outlives it.
//
// Matrix is the node's local transform (column-major, as read from or
// written to disk); GlobalMatrix is derived by UpdateTransform as
// Parent.GlobalMatrix * Matrix, or Matrix itself at a root.
type Node struct {
	Name   string
	Parent *Node
	Children []*Node
	Meshes []*Mesh

	Matrix       lin.M4
	GlobalMatrix lin.M4
}

// NewNode returns a detached, parentless Node with an identity local
// transform.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	n.Matrix.Identity()
	n.GlobalMatrix.Identity()
	return n
}

// AddChild makes child a child of n, first removing it from any prior
// parent. child must not be n itself and must not be an ancestor of n
// (which would introduce a cycle); both are programmer errors and panic,
// matching spec.md §8's "n.parent ≠ n" and acyclic invariants.
func (n *Node) AddChild(child *Node) {
	if child == n {
		panic("meshfile: a node cannot be its own child")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("meshfile: AddChild would introduce a cycle")
		}
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	n.Children = append(n.Children, child)
	child.Parent = n
}

// RemoveChild detaches child from n, if it is currently a child.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// AddMesh attaches mesh to n.
func (n *Node) AddMesh(mesh *Mesh) {
	n.Meshes = append(n.Meshes, mesh)
}

// RemoveMesh detaches mesh from n, if attached.
func (n *Node) RemoveMesh(mesh *Mesh) {
	for i, m := range n.Meshes {
		if m == mesh {
			n.Meshes = append(n.Meshes[:i], n.Meshes[i+1:]...)
			return
		}
	}
}

// UpdateTransform recomputes n.GlobalMatrix from n.Parent.GlobalMatrix
// (or n.Matrix alone, at a root) and then recurses into n's children.
// Called top-down from MeshFile.UpdateTransforms after every load and
// whenever a node's local Matrix changes.
func (n *Node) UpdateTransform() {
	if n.Parent != nil {
		n.GlobalMatrix.Mult(&n.Parent.GlobalMatrix, &n.Matrix)
	} else {
		n.GlobalMatrix = n.Matrix
	}
	for _, c := range n.Children {
		c.UpdateTransform()
	}
}

// Walk calls fn for n and every descendant, in document (pre-) order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
