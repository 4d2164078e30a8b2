// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"fmt"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/handle"
)

var jtfMagic = [4]byte{'J', 'T', 'F', '!'}

// LoadJTF reads the trivial fixed-layout JTF binary triangle dump: a
// 4-byte magic, a uint32 format (only 0 is defined) and a uint32 face
// count, followed by that many faces of three {pos:vec3, norm:vec3,
// uv:vec2} vertices, all little-endian. The result is one un-indexed
// mesh (three unique vertices per face, no sharing) plus a default node
// referencing it, matching spec.md §4.G. Grounded on the teacher's
// load/iqm.go binary.Read+magic-check shape, generalized to the
// JTF layout.
func LoadJTF(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	var magic [4]byte
	if err := handle.ReadFull(h, magic[:]); err != nil {
		return fmt.Errorf("format: jtf: %w", err)
	}
	if magic != jtfMagic {
		return fmt.Errorf("format: jtf: bad magic %q", magic)
	}
	format, err := handle.ReadU32(h)
	if err != nil {
		return fmt.Errorf("format: jtf: %w", err)
	}
	if format != 0 {
		return fmt.Errorf("format: jtf: unsupported format %d", format)
	}
	faceCount, err := handle.ReadU32(h)
	if err != nil {
		return fmt.Errorf("format: jtf: %w", err)
	}

	m := meshfile.NewMesh("jtf")
	for f := uint32(0); f < faceCount; f++ {
		var idx [3]int
		for k := 0; k < 3; k++ {
			pos, err := readV3(h)
			if err != nil {
				return fmt.Errorf("format: jtf: face %d vertex %d: %w", f, k, err)
			}
			norm, err := readV3(h)
			if err != nil {
				return fmt.Errorf("format: jtf: face %d vertex %d: %w", f, k, err)
			}
			uv, err := readV2(h)
			if err != nil {
				return fmt.Errorf("format: jtf: face %d vertex %d: %w", f, k, err)
			}
			idx[k] = m.AddVertex(pos[0], pos[1], pos[2])
			m.AddNormal(norm[0], norm[1], norm[2])
			m.AddTexcoord(uv[0], uv[1])
		}
		m.AddTriangle(idx[0], idx[1], idx[2])
	}
	mf.AddMesh(m)

	node := meshfile.NewNode("jtf")
	node.AddMesh(m)
	mf.AddNode(node)
	return nil
}

// SaveJTF flattens every mesh in mf into one JTF triangle dump: a single
// header holds the total triangle count across all meshes, and every
// face is written un-indexed, defaulting norm to (0,1,0) and uv to
// (0,0) for meshes that don't carry that attribute.
func SaveJTF(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	if _, err := h.Write(jtfMagic[:]); err != nil {
		return err
	}
	if err := handle.WriteU32(h, 0); err != nil {
		return err
	}

	total := uint32(0)
	for _, m := range mf.Meshes() {
		total += uint32(m.NumFaces())
	}
	if err := handle.WriteU32(h, total); err != nil {
		return err
	}

	for _, m := range mf.Meshes() {
		hasN, hasUV := m.HasNormals(), m.HasTexcoords()
		for _, face := range m.Faces {
			for _, vi := range face.V {
				p := m.Vertex[vi]
				if err := writeV3(h, p.X, p.Y, p.Z); err != nil {
					return err
				}
				n := [3]float32{0, 1, 0}
				if hasN {
					nv := m.Normal[vi]
					n = [3]float32{nv.X, nv.Y, nv.Z}
				}
				if err := writeV3(h, n[0], n[1], n[2]); err != nil {
					return err
				}
				u, v := float32(0), float32(0)
				if hasUV {
					uv := m.Texcoord[vi]
					u, v = uv.X, uv.Y
				}
				if err := writeV2(h, u, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func readV3(h handle.Handle) ([3]float32, error) {
	var v [3]float32
	for i := range v {
		f, err := handle.ReadF32(h)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func readV2(h handle.Handle) ([2]float32, error) {
	var v [2]float32
	for i := range v {
		f, err := handle.ReadF32(h)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func writeV3(h handle.Handle, x, y, z float32) error {
	if err := handle.WriteF32(h, x); err != nil {
		return err
	}
	if err := handle.WriteF32(h, y); err != nil {
		return err
	}
	return handle.WriteF32(h, z)
}

func writeV2(h handle.Handle, x, y float32) error {
	if err := handle.WriteF32(h, x); err != nil {
		return err
	}
	return handle.WriteF32(h, y)
}
