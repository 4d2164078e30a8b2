// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package meshfile is a self-contained library for reading and writing
// 3D mesh scene files across several heterogeneous formats (Wavefront
// OBJ, JTF, binary STL, 3DS, glTF 2.0), unified behind the in-memory
// scene model defined in this package: MeshFile, Mesh, Material, Node.
//
// Package meshfile is part of the meshfile scene library; format codecs
// live in the sibling package github.com/gazed/meshfile/format.
package meshfile

import (
	"fmt"
	"path"
	"path/filepath"
)

// MeshFile is the root scene container. It exclusively owns every Mesh,
// Material and Node added to it; Node→mesh, node→child and mesh→material
// references are all weak (see node.go, mesh.go). Load builds a fresh
// MeshFile; Save reads an existing one.
type MeshFile struct {
	Path string // source/destination path, if known.
	Dir  string // directory component of Path, used for asset resolution.

	meshes    []*Mesh
	materials []*Material
	nodes     []*Node
	rootNodes []*Node

	assetCache map[string]string

	Bounds AABox
}

// New returns an empty, initialized MeshFile.
func New() *MeshFile {
	return &MeshFile{assetCache: map[string]string{}, Bounds: NewAABox()}
}

// SetPath records the scene's source/destination path and derives Dir
// from it, used by asset-path resolution (ResolveAsset).
func (mf *MeshFile) SetPath(p string) {
	mf.Path = p
	mf.Dir = filepath.Dir(p)
}

// Clear detaches and discards every mesh, material and node, resetting
// MeshFile to its just-initialized state. Per spec.md §5, this is the
// only supported form of removal — there is no per-entity delete, since
// weak references would otherwise need individual fix-up.
func (mf *MeshFile) Clear() {
	mf.meshes = nil
	mf.materials = nil
	mf.nodes = nil
	mf.rootNodes = nil
	mf.assetCache = map[string]string{}
	mf.Bounds = NewAABox()
}

// AddMesh takes ownership of m and returns it.
func (mf *MeshFile) AddMesh(m *Mesh) *Mesh {
	mf.meshes = append(mf.meshes, m)
	return m
}

// AddMaterial takes ownership of m and returns it.
func (mf *MeshFile) AddMaterial(m *Material) *Material {
	mf.materials = append(mf.materials, m)
	return m
}

// AddNode takes ownership of n and returns it. If n is parentless it
// also enters the top-level (root) node list.
func (mf *MeshFile) AddNode(n *Node) *Node {
	mf.nodes = append(mf.nodes, n)
	if n.Parent == nil {
		mf.rootNodes = append(mf.rootNodes, n)
	}
	return n
}

// NumMeshes, NumMaterials, NumNodes, NumTopNodes report entity counts.
func (mf *MeshFile) NumMeshes() int    { return len(mf.meshes) }
func (mf *MeshFile) NumMaterials() int { return len(mf.materials) }
func (mf *MeshFile) NumNodes() int     { return len(mf.nodes) }
func (mf *MeshFile) NumTopNodes() int  { return len(mf.rootNodes) }

// Mesh, Material, Node return the i'th entity of their kind, added in
// insertion order.
func (mf *MeshFile) Mesh(i int) *Mesh         { return mf.meshes[i] }
func (mf *MeshFile) Material(i int) *Material { return mf.materials[i] }
func (mf *MeshFile) Node(i int) *Node         { return mf.nodes[i] }
func (mf *MeshFile) TopNode(i int) *Node      { return mf.rootNodes[i] }

// Meshes, Materials, Nodes, TopNodes return the live entity slices.
// Callers must not retain these past the next Clear.
func (mf *MeshFile) Meshes() []*Mesh         { return mf.meshes }
func (mf *MeshFile) Materials() []*Material  { return mf.materials }
func (mf *MeshFile) Nodes() []*Node          { return mf.nodes }
func (mf *MeshFile) TopNodes() []*Node       { return mf.rootNodes }

// FindMesh, FindMaterial, FindNode do a linear, name-based search
// (spec.md §6: "name-based find (linear)"); they return nil if no
// entity with that name exists.
func (mf *MeshFile) FindMesh(name string) *Mesh {
	for _, m := range mf.meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (mf *MeshFile) FindMaterial(name string) *Material {
	for _, m := range mf.materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (mf *MeshFile) FindNode(name string) *Node {
	for _, n := range mf.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// UpdateTransforms recomputes every root node's (and, recursively, every
// descendant's) GlobalMatrix, then recomputes mf.Bounds by walking every
// node, transforming every referenced mesh's vertices by that node's
// global matrix, and expanding a fresh box. A mesh referenced by
// multiple nodes contributes once per reference, per spec.md §4.E.
func (mf *MeshFile) UpdateTransforms() {
	for _, root := range mf.rootNodes {
		root.UpdateTransform()
	}
	mf.Bounds = NewAABox()
	for _, n := range mf.nodes {
		for _, m := range n.Meshes {
			for _, v := range m.Vertex {
				wv := v
				wv.MultMat(&v, &n.GlobalMatrix)
				mf.Bounds.ExpandPoint(&wv)
			}
		}
	}
}

// ResolveAsset resolves a logical asset name (e.g. a texture filename
// referenced from a material) against the scene's directory, caching
// the winning path under name. It tries "<Dir>/<name>" first, then
// "<name>" on its own; the empty string and false are returned if
// neither candidate can be statted by exists.
//
// exists is injected so codecs can resolve paths against an
// application-supplied filesystem (or, in tests, a fake) rather than
// always touching the real one.
func (mf *MeshFile) ResolveAsset(name string, exists func(string) bool) (string, bool) {
	if cached, ok := mf.assetCache[name]; ok {
		return cached, true
	}
	candidates := []string{path.Join(mf.Dir, name), name}
	for _, c := range candidates {
		if exists(c) {
			mf.assetCache[name] = c
			return c, true
		}
	}
	return "", false
}

// QueryBounds returns the scene's world-space bounds, or an error if the
// scene has never had UpdateTransforms populate any geometry.
func (mf *MeshFile) QueryBounds() (vmin, vmax [3]float32, err error) {
	lo, hi, ok := mf.Bounds.Bounds()
	if !ok {
		return vmin, vmax, fmt.Errorf("meshfile: bounds are empty (no geometry loaded)")
	}
	return [3]float32{lo.X, lo.Y, lo.Z}, [3]float32{hi.X, hi.Y, hi.Z}, nil
}
