// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/handle"
	"github.com/gazed/meshfile/math/lin"
)

// 3DS chunk ids that drive behaviour, per spec.md §4.I. Sub-chunks this
// codec does not recognise (lights, cameras, keyframer data, ambient
// colour, ...) are walked over and skipped via their own chunk length,
// never hand-enumerated.
const (
	chunkMain      = 0x4D4D
	chunkVersion   = 0x0002
	chunkEdit3DS   = 0x3D3D
	chunkMeshVer   = 0x3D3E
	chunkMaterial  = 0xAFFF
	chunkMatName   = 0xA000
	chunkMatAmbient = 0xA010
	chunkMatDiffuse = 0xA020
	chunkMatSpecular = 0xA030
	chunkRGBFloat    = 0x0010
	chunkRGBByte     = 0x0011
	chunkRGBByteGamma  = 0x0012
	chunkRGBFloatGamma = 0x0013
	chunkMatShininess    = 0xA040
	chunkMatShinStrength = 0xA041
	chunkMatSelfIllum    = 0xA084
	chunkPercentInt   = 0x0030
	chunkPercentFloat = 0x0031
	chunkMatTexMap  = 0xA200
	chunkMatSpecMap = 0xA204
	chunkMatOpacMap = 0xA210
	chunkMatReflMap = 0xA220
	chunkMatBumpMap = 0xA230
	chunkMatShinMap = 0xA33C
	chunkMapFilename = 0xA300
	chunkMapUScale   = 0xA354
	chunkMapVScale   = 0xA356
	chunkMapUOffset  = 0xA358
	chunkMapVOffset  = 0xA35A
	chunkMapAng      = 0xA35C
	chunkObject   = 0x4000
	chunkTrimesh  = 0x4100
	chunkVertList = 0x4110
	chunkFaceDesc = 0x4120
	chunkFaceMtl  = 0x4130
	chunkUVList   = 0x4140
	chunkMeshMatrix = 0x4160
)

// readChunkHeader reads the 6-byte {id, length} header at h's current
// position and returns the chunk's id and its absolute end offset
// (length is inclusive of the header, per spec.md §4.I).
func readChunkHeader(h handle.Handle) (id uint16, end int64, err error) {
	start, err := h.Seek(0, handle.SeekCur)
	if err != nil {
		return 0, 0, err
	}
	id, err = handle.ReadU16(h)
	if err != nil {
		return 0, 0, err
	}
	length, err := handle.ReadU32(h)
	if err != nil {
		return 0, 0, err
	}
	return id, start + int64(length), nil
}

// walkChunks reads sub-chunks of the chunk whose content ends at end,
// stopping once fewer than 6 bytes remain (the bounded-seek pattern of
// spec.md §4.I): it reads each sub-chunk's header, calls handler, then
// seeks to that sub-chunk's own end regardless of how much of it
// handler consumed — recognised chunks that read only part of their
// body and entirely unrecognised chunks are skipped identically.
func walkChunks(h handle.Handle, end int64, handler func(id uint16, chEnd int64) error) error {
	for {
		pos, err := h.Seek(0, handle.SeekCur)
		if err != nil {
			return err
		}
		if pos+6 > end {
			return nil
		}
		id, chEnd, err := readChunkHeader(h)
		if err != nil {
			return err
		}
		if err := handler(id, chEnd); err != nil {
			return err
		}
		if _, err := h.Seek(chEnd, handle.SeekSet); err != nil {
			return err
		}
	}
}

func readCString(h handle.Handle) (string, error) {
	var buf []byte
	for {
		var b [1]byte
		if err := handle.ReadFull(h, b[:]); err != nil {
			return "", err
		}
		if b[0] == 0 {
			break
		}
		buf = append(buf, b[0])
	}
	return string(buf), nil
}

// v3dsToLib converts a 3DS-space (Z-up) vector to this library's Y-up
// convention by swapping y and z and negating the new z, per spec.md
// §4.I. libToV3ds is its exact inverse, used on save.
func v3dsToLib(x, y, z float32) lin.V3 { return lin.V3{X: x, Y: z, Z: -y} }
func libToV3ds(v lin.V3) (x, y, z float32) { return v.X, -v.Z, v.Y }

// read3dsMatrix decodes the twelve floats of a MESHMATRIX chunk (four
// 3-float columns: the local X/Y/Z axes then the translation) into an
// M4, applying the same axis conversion as vertex data. write3dsMatrix
// is its exact inverse.
func read3dsMatrix(f [12]float32) *lin.M4 {
	m := lin.M4Identity()
	for col := 0; col < 4; col++ {
		v := v3dsToLib(f[col*3], f[col*3+1], f[col*3+2])
		m[col*4+0], m[col*4+1], m[col*4+2] = v.X, v.Y, v.Z
	}
	return m
}

func write3dsMatrix(m *lin.M4) [12]float32 {
	var out [12]float32
	for col := 0; col < 4; col++ {
		x, y, z := libToV3ds(lin.V3{X: m[col*4+0], Y: m[col*4+1], Z: m[col*4+2]})
		out[col*3], out[col*3+1], out[col*3+2] = x, y, z
	}
	return out
}

// Load3DS walks the chunk tree of a 3DS file: MAIN → 3DEDITOR →
// {MATERIAL, OBJECT→TRIMESH}. Materials are read before objects because
// they appear first in document order within 3DEDITOR, matching
// spec.md §5's "materials parsed before the meshes that reference
// them." Grounded on the teacher's load/iqm.go binary.Read idiom,
// generalized to the bounded-seek chunk walk spec.md §4.I requires (no
// pack repo implements 3DS).
func Load3DS(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	id, end, err := readChunkHeader(h)
	if err != nil {
		return fmt.Errorf("format: 3ds: %w", err)
	}
	if id != chunkMain {
		return fmt.Errorf("format: 3ds: bad magic chunk %#x", id)
	}

	sawMesh := false
	err = walkChunks(h, end, func(id uint16, cend int64) error {
		if id != chunkEdit3DS {
			return nil
		}
		return walkChunks(h, cend, func(id uint16, cend int64) error {
			switch id {
			case chunkMaterial:
				return load3dsMaterial(mf, h, cend)
			case chunkObject:
				m, n, err := load3dsObject(mf, h, cend)
				if err != nil {
					return err
				}
				if m != nil {
					mf.AddMesh(m)
					n.AddMesh(m)
					mf.AddNode(n)
					sawMesh = true
				}
				return nil
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("format: 3ds: %w", err)
	}
	if !sawMesh {
		return fmt.Errorf("format: 3ds: no trimesh object found")
	}
	return nil
}

func load3dsMaterial(mf *meshfile.MeshFile, h handle.Handle, end int64) error {
	mat := meshfile.NewMaterial("material")
	shin, shinStrength := float32(1), float32(1)
	var selfIllum float32

	err := walkChunks(h, end, func(id uint16, cend int64) error {
		switch id {
		case chunkMatName:
			name, err := readCString(h)
			if err != nil {
				return err
			}
			mat.Name = name
		case chunkMatDiffuse:
			c, err := read3dsColor(h, cend)
			if err != nil {
				return err
			}
			mat.SetColor3(meshfile.AttrColor, c.X, c.Y, c.Z)
		case chunkMatSpecular:
			c, err := read3dsColor(h, cend)
			if err != nil {
				return err
			}
			mat.SetColor3(meshfile.AttrSpecular, c.X, c.Y, c.Z)
		case chunkMatShininess:
			v, err := read3dsPercent(h, cend)
			if err != nil {
				return err
			}
			shin = v
		case chunkMatShinStrength:
			v, err := read3dsPercent(h, cend)
			if err != nil {
				return err
			}
			shinStrength = v
		case chunkMatSelfIllum:
			v, err := read3dsPercent(h, cend)
			if err != nil {
				return err
			}
			selfIllum = v
		case chunkMatTexMap:
			return applyTexMap(h, cend, mat.Attribute(meshfile.AttrColor))
		case chunkMatSpecMap:
			return applyTexMap(h, cend, mat.Attribute(meshfile.AttrSpecular))
		case chunkMatShinMap:
			return applyTexMap(h, cend, mat.Attribute(meshfile.AttrShininess))
		case chunkMatOpacMap:
			return applyTexMap(h, cend, mat.Attribute(meshfile.AttrAlpha))
		case chunkMatBumpMap:
			return applyTexMap(h, cend, mat.Attribute(meshfile.AttrBump))
		case chunkMatReflMap:
			return applyTexMap(h, cend, mat.Attribute(meshfile.AttrReflect))
		}
		return nil
	})
	if err != nil {
		return err
	}

	mat.SetScalar(meshfile.AttrShininess, shin*shinStrength*128)
	d := mat.Attribute(meshfile.AttrColor).Value
	mat.SetColor3(meshfile.AttrEmissive, d.X*selfIllum, d.Y*selfIllum, d.Z*selfIllum)
	mf.AddMaterial(mat)
	return nil
}

func applyTexMap(h handle.Handle, end int64, attr *meshfile.Attribute) error {
	tm, err := read3dsTexMap(h, end)
	if err != nil {
		return err
	}
	attr.Map = tm
	return nil
}

// read3dsColor decodes a material colour wrapper chunk's single RGB
// (byte, 0-255) or RGBF (float) sub-chunk; the "gamma" variants are
// treated identically to their linear counterparts per spec.md §4.I.
func read3dsColor(h handle.Handle, end int64) (lin.V3, error) {
	var c lin.V3
	err := walkChunks(h, end, func(id uint16, cend int64) error {
		switch id {
		case chunkRGBFloat, chunkRGBFloatGamma:
			r, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			g, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			b, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			c = lin.V3{X: r, Y: g, Z: b}
		case chunkRGBByte, chunkRGBByteGamma:
			var rgb [3]byte
			if err := handle.ReadFull(h, rgb[:]); err != nil {
				return err
			}
			c = lin.V3{X: float32(rgb[0]) / 255, Y: float32(rgb[1]) / 255, Z: float32(rgb[2]) / 255}
		}
		return nil
	})
	return c, err
}

// read3dsPercent decodes a percentage wrapper chunk's PERCENT_INT
// (int16/100) or PERCENT_FLT (float/100) sub-chunk.
func read3dsPercent(h handle.Handle, end int64) (float32, error) {
	var v float32
	err := walkChunks(h, end, func(id uint16, cend int64) error {
		switch id {
		case chunkPercentInt:
			u, err := handle.ReadU16(h)
			if err != nil {
				return err
			}
			v = float32(int16(u)) / 100
		case chunkPercentFloat:
			f, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			v = f / 100
		}
		return nil
	})
	return v, err
}

func read3dsTexMap(h handle.Handle, end int64) (meshfile.TextureMap, error) {
	tm := meshfile.NewTextureMap()
	err := walkChunks(h, end, func(id uint16, cend int64) error {
		switch id {
		case chunkMapFilename:
			name, err := readCString(h)
			if err != nil {
				return err
			}
			tm.Name = strings.ToLower(name)
		case chunkMapUOffset:
			f, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			tm.Offset.X = f
		case chunkMapVOffset:
			f, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			tm.Offset.Y = f
		case chunkMapUScale:
			f, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			tm.Scale.X = f
		case chunkMapVScale:
			f, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			tm.Scale.Y = f
		case chunkMapAng:
			f, err := handle.ReadF32(h)
			if err != nil {
				return err
			}
			tm.Rot = f
		}
		return nil
	})
	return tm, err
}

// load3dsObject reads an OBJECT chunk's NUL-terminated name and, if it
// contains a TRIMESH child, decodes it; objects with no trimesh (lights,
// cameras) yield a nil mesh.
func load3dsObject(mf *meshfile.MeshFile, h handle.Handle, end int64) (*meshfile.Mesh, *meshfile.Node, error) {
	name, err := readCString(h)
	if err != nil {
		return nil, nil, err
	}

	var mesh *meshfile.Mesh
	var node *meshfile.Node
	err = walkChunks(h, end, func(id uint16, cend int64) error {
		if id != chunkTrimesh {
			return nil
		}
		m, n, err := load3dsTrimesh(mf, h, cend, name)
		if err != nil {
			return err
		}
		mesh, node = m, n
		return nil
	})
	return mesh, node, err
}

// load3dsTrimesh reads VERTLIST/UVLIST/FACEDESC(+FACEMTL)/MESHMATRIX. A
// stored MESHMATRIX becomes the returned node's local transform, and
// the mesh's vertices are pre-transformed by its inverse so they end up
// local to the node, per spec.md §4.I.
func load3dsTrimesh(mf *meshfile.MeshFile, h handle.Handle, end int64, name string) (*meshfile.Mesh, *meshfile.Node, error) {
	m := meshfile.NewMesh(name)
	var uvs []lin.V2
	var matrix *lin.M4
	var matName string

	err := walkChunks(h, end, func(id uint16, cend int64) error {
		switch id {
		case chunkVertList:
			count, err := handle.ReadU16(h)
			if err != nil {
				return err
			}
			for i := uint16(0); i < count; i++ {
				x, err := handle.ReadF32(h)
				if err != nil {
					return err
				}
				y, err := handle.ReadF32(h)
				if err != nil {
					return err
				}
				z, err := handle.ReadF32(h)
				if err != nil {
					return err
				}
				v := v3dsToLib(x, y, z)
				m.AddVertex(v.X, v.Y, v.Z)
			}
		case chunkUVList:
			count, err := handle.ReadU16(h)
			if err != nil {
				return err
			}
			uvs = make([]lin.V2, count)
			for i := range uvs {
				u, err := handle.ReadF32(h)
				if err != nil {
					return err
				}
				v, err := handle.ReadF32(h)
				if err != nil {
					return err
				}
				uvs[i] = lin.V2{X: u, Y: v}
			}
		case chunkFaceDesc:
			count, err := handle.ReadU16(h)
			if err != nil {
				return err
			}
			for i := uint16(0); i < count; i++ {
				a, err := handle.ReadU16(h)
				if err != nil {
					return err
				}
				b, err := handle.ReadU16(h)
				if err != nil {
					return err
				}
				c, err := handle.ReadU16(h)
				if err != nil {
					return err
				}
				if _, err := handle.ReadU16(h); err != nil { // edge flags, unused
					return err
				}
				m.AddTriangle(int(a), int(b), int(c))
			}
			return walkChunks(h, cend, func(id uint16, cend int64) error {
				if id != chunkFaceMtl {
					return nil
				}
				n, err := readCString(h)
				if err != nil {
					return err
				}
				matName = n
				fcount, err := handle.ReadU16(h)
				if err != nil {
					return err
				}
				for i := uint16(0); i < fcount; i++ {
					if _, err := handle.ReadU16(h); err != nil { // per-face index, unused: mesh adopts one material
						return err
					}
				}
				return nil
			})
		case chunkMeshMatrix:
			var floats [12]float32
			for i := range floats {
				f, err := handle.ReadF32(h)
				if err != nil {
					return err
				}
				floats[i] = f
			}
			matrix = read3dsMatrix(floats)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(uvs) > 0 && len(uvs) == m.NumVerts() {
		for _, uv := range uvs {
			m.AddTexcoord(uv.X, uv.Y)
		}
	}
	if matName != "" {
		if mat := mf.FindMaterial(matName); mat != nil {
			m.SetMaterial(mat)
		}
	}

	node := meshfile.NewNode(name)
	if matrix != nil {
		node.Matrix = *matrix
		var inv lin.M4
		if inv.Inverse(matrix) {
			for i := range m.Vertex {
				m.Vertex[i].MultMat(&m.Vertex[i], &inv)
			}
			m.Bounds = meshfile.NewAABox()
			for i := range m.Vertex {
				m.Bounds.ExpandPoint(&m.Vertex[i])
			}
		} else {
			slog.Warn("format: 3ds: singular mesh matrix, leaving vertices in world space", "object", name)
		}
	}
	return m, node, nil
}

// Save3DS writes MAIN{VERSION, 3DEDITOR{MESHVER, every material, one
// OBJECT/TRIMESH per (node, mesh-in-node) pair}}. Sizes are computed
// bottom-up before any bytes reach h (spec.md §9's recommended
// two-pass approach over the source's seek-and-backpatch one); the
// emitted bytes are otherwise identical in shape to the source's.
// Meshes over 65535 verts or faces are skipped with a log, per
// spec.md §4.I. Normals are never emitted — 3DS has no vertex normals.
func Save3DS(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	var editorBody []byte
	editorBody = append(editorBody, buildChunk(chunkMeshVer, leU16(3))...)
	for _, mat := range mf.Materials() {
		editorBody = append(editorBody, build3dsMaterial(mat)...)
	}
	for _, n := range mf.Nodes() {
		for i, m := range n.Meshes {
			if m.NumVerts() > 65535 || m.NumFaces() > 65535 {
				slog.Warn("format: 3ds: mesh exceeds 65535 verts/faces, skipping", "node", n.Name, "mesh", m.Name)
				continue
			}
			name := n.Name
			if len(n.Meshes) > 1 {
				name = fmt.Sprintf("%s#%d", n.Name, i)
			}
			editorBody = append(editorBody, build3dsObject(name, m, &n.GlobalMatrix)...)
		}
	}

	var mainBody []byte
	mainBody = append(mainBody, buildChunk(chunkVersion, leU32(3))...)
	mainBody = append(mainBody, buildChunk(chunkEdit3DS, editorBody)...)
	_, err := h.Write(buildChunk(chunkMain, mainBody))
	return err
}

func build3dsMaterial(mat *meshfile.Material) []byte {
	var body []byte
	body = append(body, buildChunk(chunkMatName, cstring(mat.Name))...)
	d := mat.Attribute(meshfile.AttrColor).Value
	body = append(body, buildColorChunk(chunkMatDiffuse, d)...)
	s := mat.Attribute(meshfile.AttrSpecular).Value
	body = append(body, buildColorChunk(chunkMatSpecular, s)...)

	shin := mat.Attribute(meshfile.AttrShininess).Value.X
	body = append(body, buildPercentChunk(chunkMatShininess, shin/128)...)
	body = append(body, buildPercentChunk(chunkMatShinStrength, 1)...)

	e := mat.Attribute(meshfile.AttrEmissive).Value
	var selfIllum float32
	if d.X != 0 {
		selfIllum = e.X / d.X
	}
	body = append(body, buildPercentChunk(chunkMatSelfIllum, selfIllum)...)

	for _, tm := range []struct {
		attr meshfile.Attr
		id   uint16
	}{
		{meshfile.AttrColor, chunkMatTexMap},
		{meshfile.AttrSpecular, chunkMatSpecMap},
		{meshfile.AttrShininess, chunkMatShinMap},
		{meshfile.AttrAlpha, chunkMatOpacMap},
		{meshfile.AttrBump, chunkMatBumpMap},
		{meshfile.AttrReflect, chunkMatReflMap},
	} {
		m := mat.Attribute(tm.attr).Map
		if m.IsSet() {
			body = append(body, build3dsTexMap(tm.id, &m)...)
		}
	}
	return buildChunk(chunkMaterial, body)
}

func build3dsTexMap(id uint16, tm *meshfile.TextureMap) []byte {
	var body []byte
	body = append(body, buildChunk(chunkMapFilename, cstring(tm.Name))...)
	body = append(body, buildChunk(chunkMapUOffset, leF32(tm.Offset.X))...)
	body = append(body, buildChunk(chunkMapVOffset, leF32(tm.Offset.Y))...)
	body = append(body, buildChunk(chunkMapUScale, leF32(tm.Scale.X))...)
	body = append(body, buildChunk(chunkMapVScale, leF32(tm.Scale.Y))...)
	body = append(body, buildChunk(chunkMapAng, leF32(tm.Rot))...)
	return buildChunk(id, body)
}

func build3dsObject(name string, m *meshfile.Mesh, global *lin.M4) []byte {
	var tri []byte
	tri = append(tri, buildChunk(chunkVertList, build3dsVertList(m, global))...)
	if m.HasTexcoords() {
		tri = append(tri, buildChunk(chunkUVList, build3dsUVList(m))...)
	}
	tri = append(tri, buildChunk(chunkFaceDesc, build3dsFaceDesc(m))...)
	mat := write3dsMatrix(global)
	var matBody []byte
	for _, f := range mat {
		matBody = append(matBody, leF32(f)...)
	}
	tri = append(tri, buildChunk(chunkMeshMatrix, matBody)...)

	body := cstring(name)
	body = append(body, buildChunk(chunkTrimesh, tri)...)
	return buildChunk(chunkObject, body)
}

func build3dsVertList(m *meshfile.Mesh, global *lin.M4) []byte {
	buf := leU16(uint16(len(m.Vertex)))
	for i := range m.Vertex {
		var wv lin.V3
		wv.MultMat(&m.Vertex[i], global)
		x, y, z := libToV3ds(wv)
		buf = append(buf, leF32(x)...)
		buf = append(buf, leF32(y)...)
		buf = append(buf, leF32(z)...)
	}
	return buf
}

func build3dsUVList(m *meshfile.Mesh) []byte {
	buf := leU16(uint16(len(m.Texcoord)))
	for _, uv := range m.Texcoord {
		buf = append(buf, leF32(uv.X)...)
		buf = append(buf, leF32(uv.Y)...)
	}
	return buf
}

func build3dsFaceDesc(m *meshfile.Mesh) []byte {
	buf := leU16(uint16(len(m.Faces)))
	for _, f := range m.Faces {
		buf = append(buf, leU16(uint16(f.V[0]))...)
		buf = append(buf, leU16(uint16(f.V[1]))...)
		buf = append(buf, leU16(uint16(f.V[2]))...)
		buf = append(buf, leU16(0)...) // edge flags: always written as zero.
	}
	return buf
}

// buildChunk wraps body in a {id, length} header, length inclusive of
// the 6-byte header itself.
func buildChunk(id uint16, body []byte) []byte {
	buf := make([]byte, 6+len(body))
	binary.LittleEndian.PutUint16(buf[0:2], id)
	binary.LittleEndian.PutUint32(buf[2:6], uint32(len(buf)))
	copy(buf[6:], body)
	return buf
}

func buildColorChunk(id uint16, c lin.V4) []byte {
	body := append(leF32(c.X), append(leF32(c.Y), leF32(c.Z)...)...)
	return buildChunk(id, buildChunk(chunkRGBFloat, body))
}

func buildPercentChunk(id uint16, v float32) []byte {
	return buildChunk(id, buildChunk(chunkPercentFloat, leF32(v*100)))
}

func cstring(s string) []byte { return append([]byte(s), 0) }

func leU16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func leU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func leF32(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}
