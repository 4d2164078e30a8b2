// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"bufio"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/handle"
	"github.com/gazed/meshfile/math/lin"
)

// LoadOBJ parses a Wavefront OBJ text stream into mf, recursively
// reading any mtllib it references through open. Grounded on the
// teacher's load/obj.go line-dispatch shape (obj2Strings/obj2Data/
// obj2MshData), generalized from "one object, overwrite" to spec.md
// §4.F's multiple-mesh, face-vertex-tuple-dedup behaviour.
func LoadOBJ(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	r := bufio.NewReader(h)

	var positions []lin.V3
	var texcoords []lin.V2
	var normals []lin.V3

	// spec.md §4.F: the face-vertex tuple map is per-file, not
	// per-mesh — a repeated (v,t,n) triple is reused even across an
	// "o"/"g" mesh boundary, which is an observed quirk of the source
	// rather than a deliberate indexing scheme.
	vmap := map[[3]int]int{}

	baseName := "obj"
	if mf.Path != "" {
		baseName = strings.TrimSuffix(filepath.Base(mf.Path), filepath.Ext(mf.Path))
	}
	cur := meshfile.NewMesh(baseName)
	curMtl := ""
	sawAnyMesh := false

	finalize := func() {
		if cur.NumFaces() == 0 {
			return
		}
		if err := cur.Validate(); err != nil {
			slog.Warn("format: discarding obj mesh with mismatched attributes", "mesh", cur.Name, "err", err)
			return
		}
		if curMtl != "" {
			if mat := mf.FindMaterial(curMtl); mat != nil {
				cur.SetMaterial(mat)
			}
		}
		mf.AddMesh(cur)
		sawAnyMesh = true
	}

	newMesh := func(name string) {
		finalize()
		cur = meshfile.NewMesh(name)
	}

	for {
		line, err := handle.GetLine(r)
		if err != nil && line == "" {
			break
		}
		line = cleanLine(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			x, y, z := parse3(fields[1:])
			positions = append(positions, lin.V3{X: x, Y: y, Z: z})
		case "vt":
			u, v := parse2(fields[1:])
			texcoords = append(texcoords, lin.V2{X: u, Y: 1 - v})
		case "vn":
			x, y, z := parse3(fields[1:])
			normals = append(normals, lin.V3{X: x, Y: y, Z: z})
		case "f":
			loadFace(cur, fields[1:], positions, texcoords, normals, vmap)
		case "o", "g":
			if len(fields) >= 2 {
				newMesh(fields[1])
			} else {
				newMesh(baseName)
			}
		case "mtllib":
			if len(fields) >= 2 && open != nil {
				if err := loadMtllib(mf, fields[1], open); err != nil {
					slog.Warn("format: mtllib", "path", fields[1], "err", err)
				}
			}
		case "usemtl":
			if len(fields) >= 2 {
				curMtl = fields[1]
			}
		default:
			// unknown directives (s, l, vp, ...) are silently ignored,
			// per spec.md §4.F.
		}
	}
	finalize()
	if !sawAnyMesh {
		return fmt.Errorf("format: obj: no mesh data found")
	}

	node := meshfile.NewNode(baseName)
	for _, m := range mf.Meshes() {
		node.AddMesh(m)
	}
	mf.AddNode(node)
	return nil
}

// cleanLine trims whitespace and strips a trailing "# comment".
func cleanLine(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func parse3(f []string) (x, y, z float32) {
	if len(f) > 0 {
		x = parseFloat(f[0])
	}
	if len(f) > 1 {
		y = parseFloat(f[1])
	}
	if len(f) > 2 {
		z = parseFloat(f[2])
	}
	return
}

func parse2(f []string) (x, y float32) {
	if len(f) > 0 {
		x = parseFloat(f[0])
	}
	if len(f) > 1 {
		y = parseFloat(f[1])
	}
	return
}

func parseFloat(s string) float32 {
	v, _ := strconv.ParseFloat(s, 32)
	return float32(v)
}

// loadFace parses a face's whitespace-separated tokens ("v", "v/t",
// "v//n" or "v/t/n") into triangle(s) on cur, deduplicating face-vertex
// tuples through vmap. Three tokens emit one triangle; four emit a quad
// (two triangles, a,b,c and a,c,d).
func loadFace(cur *meshfile.Mesh, tokens []string, positions []lin.V3, texcoords []lin.V2, normals []lin.V3, vmap map[[3]int]int) {
	idx := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		vi, ti, ni := parseFaceToken(tok, len(positions), len(texcoords), len(normals))
		if vi < 0 || vi >= len(positions) {
			slog.Warn("format: obj face vertex index out of range", "token", tok)
			return
		}
		key := [3]int{vi, ti, ni}
		if existing, ok := vmap[key]; ok {
			idx = append(idx, existing)
			continue
		}
		n := cur.AddVertex(positions[vi].X, positions[vi].Y, positions[vi].Z)
		if ni != -1 && ni < len(normals) {
			cur.AddNormal(normals[ni].X, normals[ni].Y, normals[ni].Z)
		}
		if ti != -1 && ti < len(texcoords) {
			cur.AddTexcoord(texcoords[ti].X, texcoords[ti].Y)
		}
		vmap[key] = n
		idx = append(idx, n)
	}
	switch len(idx) {
	case 3:
		cur.AddTriangle(idx[0], idx[1], idx[2])
	case 4:
		cur.AddQuad(idx[0], idx[1], idx[2], idx[3])
	default:
		slog.Warn("format: obj face with unsupported vertex count", "count", len(idx))
	}
}

// parseFaceToken decodes a "v", "v/t", "v//n" or "v/t/n" token into
// 0-based indices, resolving 1-based and negative (relative-to-end)
// forms. Absent texcoord/normal indices are -1.
func parseFaceToken(tok string, nv, nt, nn int) (vi, ti, ni int) {
	vi, ti, ni = -1, -1, -1
	parts := strings.Split(tok, "/")
	if len(parts) > 0 && parts[0] != "" {
		vi = resolveIndex(parts[0], nv)
	}
	if len(parts) > 1 && parts[1] != "" {
		ti = resolveIndex(parts[1], nt)
	}
	if len(parts) > 2 && parts[2] != "" {
		ni = resolveIndex(parts[2], nn)
	}
	return
}

// resolveIndex converts a 1-based OBJ index (or, if negative, an index
// relative to the end of the n-length array already read) to 0-based.
func resolveIndex(s string, n int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	if v < 0 {
		return n + v
	}
	return v - 1
}

// SaveOBJ writes mf as Wavefront OBJ text to h: vertex/texcoord/normal
// blocks shared across the whole file (spec.md §4.F's per-file index
// space, mirrored on write), one "o"/face block per mesh, and a sidecar
// "<basename>.mtl" written through open when mf has any materials.
func SaveOBJ(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	meshes := mf.Meshes()
	if len(meshes) == 0 {
		return fmt.Errorf("format: obj: meshfile has no meshes")
	}

	base := "scene"
	if mf.Path != "" {
		base = strings.TrimSuffix(filepath.Base(mf.Path), filepath.Ext(mf.Path))
	}
	mtlName := base + ".mtl"
	if len(mf.Materials()) > 0 && open != nil {
		if err := saveMtllib(mf, mtlName, open); err != nil {
			return fmt.Errorf("format: obj: mtllib: %w", err)
		}
		if err := handle.Fprintf(h, "mtllib %s\n\n", mtlName); err != nil {
			return err
		}
	}

	// offset tracks the running 1-based index of the first vertex of
	// each mesh within the shared per-file vertex block, since OBJ
	// indices count from 1 across the whole file.
	offset := 1
	for _, m := range meshes {
		if err := handle.Fprintf(h, "o %s\n", m.Name); err != nil {
			return err
		}
		for i := range m.Vertex {
			v := m.Vertex[i]
			if err := handle.Fprintf(h, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		hasTC, hasN := m.HasTexcoords(), m.HasNormals()
		if hasTC {
			for _, t := range m.Texcoord {
				if err := handle.Fprintf(h, "vt %g %g\n", t.X, 1-t.Y); err != nil {
					return err
				}
			}
		}
		if hasN {
			for _, n := range m.Normal {
				if err := handle.Fprintf(h, "vn %g %g %g\n", n.X, n.Y, n.Z); err != nil {
					return err
				}
			}
		}
		if mat := m.Material(); mat != nil {
			if err := handle.Fprintf(h, "usemtl %s\n", mat.Name); err != nil {
				return err
			}
		}
		for _, face := range m.Faces {
			if err := writeFaceLine(h, face.V[:], offset, hasTC, hasN); err != nil {
				return err
			}
		}
		offset += len(m.Vertex)
		if err := handle.Fprintf(h, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeFaceLine(h handle.Handle, idx []int, offset int, hasTC, hasN bool) error {
	if err := handle.Fprintf(h, "f"); err != nil {
		return err
	}
	for _, i := range idx {
		n := i + offset
		var err error
		switch {
		case hasTC && hasN:
			err = handle.Fprintf(h, " %d/%d/%d", n, n, n)
		case hasTC:
			err = handle.Fprintf(h, " %d/%d", n, n)
		case hasN:
			err = handle.Fprintf(h, " %d//%d", n, n)
		default:
			err = handle.Fprintf(h, " %d", n)
		}
		if err != nil {
			return err
		}
	}
	return handle.Fprintf(h, "\n")
}

func saveMtllib(mf *meshfile.MeshFile, name string, open OpenFunc) error {
	hh, err := open(name, true)
	if err != nil {
		return err
	}
	defer hh.Close()
	return SaveMTL(mf, hh)
}

func loadMtllib(mf *meshfile.MeshFile, name string, open OpenFunc) error {
	resolved, ok := mf.ResolveAsset(name, func(p string) bool {
		hh, err := open(p, false)
		if err != nil {
			return false
		}
		hh.Close()
		return true
	})
	if !ok {
		return fmt.Errorf("mtllib %q not found", name)
	}
	hh, err := open(resolved, false)
	if err != nil {
		return err
	}
	defer hh.Close()
	return LoadMTL(mf, hh)
}
