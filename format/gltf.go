// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/handle"
	"github.com/gazed/meshfile/jsonv"
	"github.com/gazed/meshfile/math/lin"
)

// glTF accessor componentType codes, per spec.md §4.J.
const (
	gltfByte   = 5120
	gltfUByte  = 5121
	gltfShort  = 5122
	gltfUShort = 5123
	gltfUInt   = 5125
	gltfFloat  = 5126
)

type gltfBufferView struct {
	buffer     int
	byteLength int
	byteOffset int
	byteStride int
}

type gltfAccessor struct {
	bufferView    int
	byteOffset    int
	componentType int
	count         int
	numComp       int
}

type gltfSampler struct {
	uFilt, vFilt meshfile.FilterMode
	uWrap, vWrap meshfile.WrapMode
}

type gltfTexture struct {
	image   int
	sampler int
}

// gltfDoc accumulates the side tables spec.md §4.J builds while reading a
// glTF document's arrays in fixed order (images, samplers, textures,
// materials, buffers, bufferViews, accessors, meshes, nodes); later
// sections reference earlier ones by array index.
type gltfDoc struct {
	root     *jsonv.Value
	binChunk []byte

	images      []string
	samplers    []gltfSampler
	textures    []gltfTexture
	materials   []*meshfile.Material
	buffers     [][]byte
	bufferViews []gltfBufferView
	accessors   []gltfAccessor
}

// LoadGLTF reads a glTF 2.0 document, either plain JSON or a `.glb`
// binary container (magic "glTF" + chunked JSON/BIN payload). Grounded
// on spec.md §4.J; no pack example implements glTF, so the document
// walk follows the spec's reader directly, reusing jsonv for the
// underlying tree.
func LoadGLTF(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	data, err := io.ReadAll(h)
	if err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}

	var jsonBytes, binChunk []byte
	if len(data) >= 4 && string(data[:4]) == "glTF" {
		jsonBytes, binChunk, err = parseGLB(data)
		if err != nil {
			return fmt.Errorf("format: gltf: %w", err)
		}
	} else {
		jsonBytes = data
	}

	root, err := jsonv.Parse(jsonBytes)
	if err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}
	if v := root.Get("asset.version"); v == nil {
		return fmt.Errorf("format: gltf: missing asset.version")
	}

	doc := &gltfDoc{root: root, binChunk: binChunk}
	doc.loadImages()
	doc.loadSamplers()
	doc.loadTextures()
	if err := doc.loadMaterials(mf); err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}
	if err := doc.loadBuffers(mf, open); err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}
	doc.loadBufferViews()
	doc.loadAccessors()
	meshStash, err := doc.loadMeshes(mf)
	if err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}
	if err := doc.loadNodes(mf, meshStash); err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}
	return nil
}

// parseGLB splits a .glb container into its JSON chunk and the
// concatenation of its BIN chunks, per spec.md §4.J/§6.
func parseGLB(data []byte) (jsonBytes, bin []byte, err error) {
	if len(data) < 12 {
		return nil, nil, fmt.Errorf("glb: header truncated")
	}
	total := binary.LittleEndian.Uint32(data[8:12])
	if int(total) > len(data) {
		return nil, nil, fmt.Errorf("glb: declared length exceeds data")
	}
	off := 12
	first := true
	for off+8 <= len(data) {
		length := int(binary.LittleEndian.Uint32(data[off : off+4]))
		ctype := string(data[off+4 : off+8])
		off += 8
		if off+length > len(data) {
			return nil, nil, fmt.Errorf("glb: chunk overruns buffer")
		}
		chunk := data[off : off+length]
		off += length
		switch ctype {
		case "JSON":
			if !first {
				return nil, nil, fmt.Errorf("glb: JSON chunk must be first")
			}
			jsonBytes = chunk
		case "BIN\x00":
			bin = append(bin, chunk...)
		}
		first = false
	}
	if jsonBytes == nil {
		return nil, nil, fmt.Errorf("glb: missing JSON chunk")
	}
	return jsonBytes, bin, nil
}

func (doc *gltfDoc) loadImages() {
	arr := doc.root.Field("images")
	for i := 0; i < arr.Len(); i++ {
		doc.images = append(doc.images, arr.Index(i).StringOr("uri", ""))
	}
}

func gltfFilterMode(code int) meshfile.FilterMode {
	switch code {
	case 9728, 9984, 9986:
		return meshfile.Nearest
	default:
		return meshfile.Linear
	}
}

func gltfWrapMode(code int) meshfile.WrapMode {
	if code == 33071 {
		return meshfile.Clamp
	}
	return meshfile.Repeat
}

func (doc *gltfDoc) loadSamplers() {
	arr := doc.root.Field("samplers")
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		mag := e.IntOr("magFilter", 9729)
		doc.samplers = append(doc.samplers, gltfSampler{
			uFilt: gltfFilterMode(mag), vFilt: gltfFilterMode(mag),
			uWrap: gltfWrapMode(e.IntOr("wrapS", 10497)),
			vWrap: gltfWrapMode(e.IntOr("wrapT", 10497)),
		})
	}
}

func (doc *gltfDoc) loadTextures() {
	arr := doc.root.Field("textures")
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		doc.textures = append(doc.textures, gltfTexture{
			image:   e.IntOr("source", -1),
			sampler: e.IntOr("sampler", -1),
		})
	}
}

// textureMap builds a TextureMap from a texture-info object such as
// "pbrMetallicRoughness.baseColorTexture", resolving its texture index
// into a name plus sampler-derived filter/wrap and applying an optional
// KHR_texture_transform extension.
func (doc *gltfDoc) textureMap(texInfo *jsonv.Value) meshfile.TextureMap {
	tm := meshfile.NewTextureMap()
	if texInfo == nil {
		return tm
	}
	idx := texInfo.IntOr("index", -1)
	if idx < 0 || idx >= len(doc.textures) {
		return tm
	}
	tex := doc.textures[idx]
	if tex.image >= 0 && tex.image < len(doc.images) {
		tm.Name = doc.images[tex.image]
	}
	if tex.sampler >= 0 && tex.sampler < len(doc.samplers) {
		s := doc.samplers[tex.sampler]
		tm.UFilt, tm.VFilt, tm.UWrap, tm.VWrap = s.uFilt, s.vFilt, s.uWrap, s.vWrap
	}
	if ext := texInfo.Get("extensions.KHR_texture_transform"); ext != nil {
		if off := ext.Floats("offset"); len(off) == 2 {
			tm.Offset.X, tm.Offset.Y = off[0], off[1]
		}
		if sc := ext.Floats("scale"); len(sc) == 2 {
			tm.Scale.X, tm.Scale.Y = sc[0], sc[1]
		}
		tm.Rot = float32(ext.NumberOr("rotation", 0))
	}
	return tm
}

// loadMaterials populates mf's materials from the document's material
// array, mapping glTF PBR fields and KHR extensions onto the scene's
// attribute slots per spec.md §4.J.
func (doc *gltfDoc) loadMaterials(mf *meshfile.MeshFile) error {
	arr := doc.root.Field("materials")
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		mat := meshfile.NewMaterial(e.StringOr("name", fmt.Sprintf("material%d", i)))
		pbr := e.Field("pbrMetallicRoughness")

		if bc := pbr.Floats("baseColorFactor"); len(bc) == 4 {
			mat.SetColor4(meshfile.AttrColor, bc[0], bc[1], bc[2], bc[3])
		} else if len(bc) == 3 {
			mat.SetColor3(meshfile.AttrColor, bc[0], bc[1], bc[2])
		}
		rough := float32(pbr.NumberOr("roughnessFactor", 1))
		mat.SetScalar(meshfile.AttrRoughness, rough)
		mat.SetScalar(meshfile.AttrShininess, (1-rough)*100+1)
		mat.SetScalar(meshfile.AttrMetallic, float32(pbr.NumberOr("metallicFactor", 1)))
		if em := e.Floats("emissiveFactor"); len(em) == 3 {
			mat.SetColor3(meshfile.AttrEmissive, em[0], em[1], em[2])
		}
		if sc := e.Floats("extensions.KHR_materials_specular.specularColorFactor"); len(sc) == 3 {
			mat.SetColor3(meshfile.AttrSpecular, sc[0], sc[1], sc[2])
		}
		if ior := e.Get("extensions.KHR_materials_ior.ior"); ior != nil && ior.Kind == jsonv.Number {
			mat.SetScalar(meshfile.AttrIOR, float32(ior.Num))
		}
		if tr := e.Get("extensions.KHR_materials_transmission.transmissionFactor"); tr != nil && tr.Kind == jsonv.Number {
			mat.SetScalar(meshfile.AttrTransmit, float32(tr.Num))
		}

		if t := pbr.Get("baseColorTexture"); t != nil {
			mat.Attribute(meshfile.AttrColor).Map = doc.textureMap(t)
		}
		if t := pbr.Get("metallicRoughnessTexture"); t != nil {
			tm := doc.textureMap(t)
			mat.Attribute(meshfile.AttrMetallic).Map = tm
			mat.Attribute(meshfile.AttrRoughness).Map = tm
		}
		if t := e.Get("emissiveTexture"); t != nil {
			mat.Attribute(meshfile.AttrEmissive).Map = doc.textureMap(t)
		}
		if t := e.Get("normalTexture"); t != nil {
			mat.Attribute(meshfile.AttrBump).Map = doc.textureMap(t)
		}
		if t := e.Get("extensions.KHR_materials_transmission.transmissionTexture"); t != nil {
			mat.Attribute(meshfile.AttrTransmit).Map = doc.textureMap(t)
		}

		doc.materials = append(doc.materials, mat)
		mf.AddMaterial(mat)
	}
	return nil
}

// resolveGLTFBuffer returns a buffer's raw bytes: the GLB binary chunk
// if uri is empty, a decoded data: URI, or an externally-resolved file
// read through open, per spec.md §4.J.
func resolveGLTFBuffer(mf *meshfile.MeshFile, open OpenFunc, binChunk []byte, uri string, byteLength int) ([]byte, error) {
	if uri == "" {
		if len(binChunk) < byteLength {
			return nil, fmt.Errorf("glb binary chunk shorter than declared buffer")
		}
		return binChunk[:byteLength], nil
	}
	if strings.HasPrefix(uri, "data:") {
		i := strings.Index(uri, "base64,")
		if i < 0 {
			return nil, fmt.Errorf("unsupported data URI %q", uri)
		}
		return lin.Base64Decode(uri[i+len("base64,"):]), nil
	}
	if open == nil {
		return nil, fmt.Errorf("external buffer %q needs an opener", uri)
	}
	exists := func(p string) bool {
		hh, err := open(p, false)
		if err != nil {
			return false
		}
		hh.Close()
		return true
	}
	path, ok := mf.ResolveAsset(uri, exists)
	if !ok {
		return nil, fmt.Errorf("cannot resolve buffer %q", uri)
	}
	hh, err := open(path, false)
	if err != nil {
		return nil, err
	}
	defer hh.Close()
	data, err := io.ReadAll(hh)
	if err != nil {
		return nil, err
	}
	if len(data) < byteLength {
		return nil, fmt.Errorf("buffer %q shorter than declared byteLength", uri)
	}
	return data[:byteLength], nil
}

func (doc *gltfDoc) loadBuffers(mf *meshfile.MeshFile, open OpenFunc) error {
	arr := doc.root.Field("buffers")
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		data, err := resolveGLTFBuffer(mf, open, doc.binChunk, e.StringOr("uri", ""), e.IntOr("byteLength", 0))
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		doc.buffers = append(doc.buffers, data)
	}
	return nil
}

func (doc *gltfDoc) loadBufferViews() {
	arr := doc.root.Field("bufferViews")
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		doc.bufferViews = append(doc.bufferViews, gltfBufferView{
			buffer:     e.IntOr("buffer", 0),
			byteLength: e.IntOr("byteLength", 0),
			byteOffset: e.IntOr("byteOffset", 0),
			byteStride: e.IntOr("byteStride", 0),
		})
	}
}

func gltfComponentSize(componentType int) int {
	switch componentType {
	case gltfByte, gltfUByte:
		return 1
	case gltfShort, gltfUShort:
		return 2
	case gltfUInt, gltfFloat:
		return 4
	}
	return 4
}

func gltfElementWidth(typeStr string) int {
	switch typeStr {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4", "MAT2":
		return 4
	case "MAT3":
		return 9
	case "MAT4":
		return 16
	}
	return 1
}

func (doc *gltfDoc) loadAccessors() {
	arr := doc.root.Field("accessors")
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		doc.accessors = append(doc.accessors, gltfAccessor{
			bufferView:    e.IntOr("bufferView", 0),
			byteOffset:    e.IntOr("byteOffset", 0),
			componentType: e.IntOr("componentType", gltfFloat),
			count:         e.IntOr("count", 0),
			numComp:       gltfElementWidth(e.StringOr("type", "SCALAR")),
		})
	}
}

func decodeComponentFloat(raw []byte, compType int) float32 {
	switch compType {
	case gltfByte:
		return float32(int8(raw[0])) / 127
	case gltfUByte:
		return float32(raw[0]) / 255
	case gltfShort:
		return float32(int16(binary.LittleEndian.Uint16(raw))) / 32767
	case gltfUShort:
		return float32(binary.LittleEndian.Uint16(raw)) / 65535
	case gltfUInt:
		return float32(binary.LittleEndian.Uint32(raw))
	case gltfFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(raw))
	}
	return 0
}

func decodeComponentInt(raw []byte, compType int) int {
	switch compType {
	case gltfUByte:
		return int(raw[0])
	case gltfUShort:
		return int(binary.LittleEndian.Uint16(raw))
	case gltfUInt:
		return int(binary.LittleEndian.Uint32(raw))
	}
	return 0
}

// accessorWindow returns the accessor's raw backing bytes (from its
// bufferView's byte offset) along with the stride between elements.
func (doc *gltfDoc) accessorWindow(i int) (acc gltfAccessor, buf []byte, stride int, err error) {
	if i < 0 || i >= len(doc.accessors) {
		return acc, nil, 0, fmt.Errorf("accessor %d out of range", i)
	}
	acc = doc.accessors[i]
	if acc.bufferView < 0 || acc.bufferView >= len(doc.bufferViews) {
		return acc, nil, 0, fmt.Errorf("accessor %d: bad bufferView", i)
	}
	bv := doc.bufferViews[acc.bufferView]
	if bv.buffer < 0 || bv.buffer >= len(doc.buffers) {
		return acc, nil, 0, fmt.Errorf("accessor %d: bad buffer", i)
	}
	compSize := gltfComponentSize(acc.componentType)
	stride = bv.byteStride
	if stride == 0 {
		stride = compSize * acc.numComp
	}
	base := bv.byteOffset + acc.byteOffset
	if base > len(doc.buffers[bv.buffer]) {
		return acc, nil, 0, fmt.Errorf("accessor %d: offset past end of buffer", i)
	}
	return acc, doc.buffers[bv.buffer][base:], stride, nil
}

func (doc *gltfDoc) readAccessorFloats(i int) ([]float32, error) {
	acc, buf, stride, err := doc.accessorWindow(i)
	if err != nil {
		return nil, err
	}
	compSize := gltfComponentSize(acc.componentType)
	out := make([]float32, acc.count*acc.numComp)
	for e := 0; e < acc.count; e++ {
		elemStart := e * stride
		for c := 0; c < acc.numComp; c++ {
			off := elemStart + c*compSize
			if off+compSize > len(buf) {
				return nil, fmt.Errorf("accessor %d: element %d out of range", i, e)
			}
			out[e*acc.numComp+c] = decodeComponentFloat(buf[off:off+compSize], acc.componentType)
		}
	}
	return out, nil
}

func (doc *gltfDoc) readAccessorInts(i int) ([]int, error) {
	acc, buf, stride, err := doc.accessorWindow(i)
	if err != nil {
		return nil, err
	}
	compSize := gltfComponentSize(acc.componentType)
	out := make([]int, acc.count)
	for e := 0; e < acc.count; e++ {
		off := e * stride
		if off+compSize > len(buf) {
			return nil, fmt.Errorf("accessor %d: element %d out of range", i, e)
		}
		out[e] = decodeComponentInt(buf[off:off+compSize], acc.componentType)
	}
	return out, nil
}

// decodePrimitive decodes one primitive's attribute accessors into a new
// Mesh, applying indices (or a flat 0,1,2,... triangle list) and the
// primitive's material reference, per spec.md §4.J.
func (doc *gltfDoc) decodePrimitive(name string, prim *jsonv.Value) (*meshfile.Mesh, error) {
	m := meshfile.NewMesh(name)
	attrs := prim.Field("attributes")

	posIdx := attrs.IntOr("POSITION", -1)
	if posIdx < 0 {
		return nil, fmt.Errorf("primitive missing POSITION")
	}
	pos, err := doc.readAccessorFloats(posIdx)
	if err != nil {
		return nil, err
	}
	for i := 0; i+3 <= len(pos); i += 3 {
		m.AddVertex(pos[i], pos[i+1], pos[i+2])
	}

	if ni := attrs.IntOr("NORMAL", -1); ni >= 0 {
		n, err := doc.readAccessorFloats(ni)
		if err != nil {
			return nil, err
		}
		for i := 0; i+3 <= len(n); i += 3 {
			m.AddNormal(n[i], n[i+1], n[i+2])
		}
	}
	if ti := attrs.IntOr("TANGENT", -1); ti >= 0 {
		t, err := doc.readAccessorFloats(ti)
		if err != nil {
			return nil, err
		}
		for i := 0; i+4 <= len(t); i += 4 {
			m.AddTangent(t[i], t[i+1], t[i+2])
		}
	}
	if uvi := attrs.IntOr("TEXCOORD_0", -1); uvi >= 0 {
		uv, err := doc.readAccessorFloats(uvi)
		if err != nil {
			return nil, err
		}
		for i := 0; i+2 <= len(uv); i += 2 {
			m.AddTexcoord(uv[i], uv[i+1])
		}
	}
	if ci := attrs.IntOr("COLOR_0", -1); ci >= 0 {
		c, err := doc.readAccessorFloats(ci)
		if err != nil {
			return nil, err
		}
		if doc.accessors[ci].numComp == 4 {
			for i := 0; i+4 <= len(c); i += 4 {
				m.AddColor(c[i], c[i+1], c[i+2], c[i+3])
			}
		} else {
			for i := 0; i+3 <= len(c); i += 3 {
				m.AddColor(c[i], c[i+1], c[i+2], 1)
			}
		}
	}

	if idxI := prim.IntOr("indices", -1); idxI >= 0 {
		idx, err := doc.readAccessorInts(idxI)
		if err != nil {
			return nil, err
		}
		for i := 0; i+3 <= len(idx); i += 3 {
			m.AddTriangle(idx[i], idx[i+1], idx[i+2])
		}
	} else {
		for i := 0; i+3 <= m.NumVerts(); i += 3 {
			m.AddTriangle(i, i+1, i+2)
		}
	}

	if matI := prim.IntOr("material", -1); matI >= 0 && matI < len(doc.materials) {
		m.SetMaterial(doc.materials[matI])
	}
	return m, nil
}

// loadMeshes decodes every mesh's triangle primitives, returning, per
// glTF mesh array index, the scene meshes produced (more than one if the
// glTF mesh had multiple primitives), for node linking.
func (doc *gltfDoc) loadMeshes(mf *meshfile.MeshFile) ([][]*meshfile.Mesh, error) {
	arr := doc.root.Field("meshes")
	stash := make([][]*meshfile.Mesh, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		name := e.StringOr("name", fmt.Sprintf("mesh%d", i))
		prims := e.Field("primitives")
		for p := 0; p < prims.Len(); p++ {
			prim := prims.Index(p)
			if mode := prim.IntOr("mode", 4); mode != 4 {
				slog.Warn("format: gltf: skipping non-triangle primitive", "mesh", name, "mode", mode)
				continue
			}
			m, err := doc.decodePrimitive(name, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d: %w", i, err)
			}
			mf.AddMesh(m)
			stash[i] = append(stash[i], m)
		}
	}
	return stash, nil
}

// loadNodes builds every scene node, attaching meshes by the stashed
// index and wiring parent/child links only after every node exists, per
// spec.md §4.J's two-pass "record children, wire up after" contract.
func (doc *gltfDoc) loadNodes(mf *meshfile.MeshFile, meshStash [][]*meshfile.Mesh) error {
	arr := doc.root.Field("nodes")
	nodes := make([]*meshfile.Node, arr.Len())
	childrenOf := make([][]int, arr.Len())

	for i := 0; i < arr.Len(); i++ {
		e := arr.Index(i)
		n := meshfile.NewNode(e.StringOr("name", fmt.Sprintf("node%d", i)))

		if mat := e.Field("matrix"); mat != nil {
			if vals := e.Floats("matrix"); len(vals) == 16 {
				var m lin.M4
				copy(m[:], vals)
				n.Matrix = m
			}
		} else {
			t, r, s := lin.V3{X: 0, Y: 0, Z: 0}, lin.Q{X: 0, Y: 0, Z: 0, W: 1}, lin.V3{X: 1, Y: 1, Z: 1}
			if vals := e.Floats("translation"); len(vals) == 3 {
				t = lin.V3{X: vals[0], Y: vals[1], Z: vals[2]}
			}
			if vals := e.Floats("rotation"); len(vals) == 4 {
				r = lin.Q{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}
			}
			if vals := e.Floats("scale"); len(vals) == 3 {
				s = lin.V3{X: vals[0], Y: vals[1], Z: vals[2]}
			}
			n.Matrix.SetPRS(&t, &r, &s)
		}

		if mi := e.IntOr("mesh", -1); mi >= 0 && mi < len(meshStash) {
			for _, m := range meshStash[mi] {
				n.AddMesh(m)
			}
		}
		if ch := e.Field("children"); ch != nil {
			for c := 0; c < ch.Len(); c++ {
				childrenOf[i] = append(childrenOf[i], int(ch.Index(c).Num))
			}
		}
		nodes[i] = n
	}

	for i, kids := range childrenOf {
		for _, c := range kids {
			if c >= 0 && c < len(nodes) {
				nodes[i].AddChild(nodes[c])
			}
		}
	}
	for _, n := range nodes {
		mf.AddNode(n)
	}
	return nil
}

// SaveGLTF emits a complete glTF 2.0 JSON document: every mesh's
// attribute and index data is packed into one buffer embedded as a
// base64 data: URI, referenced by a bufferView/accessor per attribute,
// exactly as LoadGLTF expects to read it back. This fills in the
// geometry emission the source left as future work (DESIGN.md).
//
// Writing uses encoding/json rather than jsonv: jsonv is a read-only
// tagged-tree parser by design (see jsonv.go's package doc), so the
// write side reaches for the one JSON encoder in the standard library
// instead of inventing one.
func SaveGLTF(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	type jAccessor struct {
		BufferView    int    `json:"bufferView"`
		ComponentType int    `json:"componentType"`
		Count         int    `json:"count"`
		Type          string `json:"type"`
	}
	type jBufferView struct {
		Buffer     int `json:"buffer"`
		ByteOffset int `json:"byteOffset"`
		ByteLength int `json:"byteLength"`
	}
	var bin []byte
	var bufferViews []jBufferView
	var accessors []jAccessor

	appendView := func(data []byte) int {
		for len(bin)%4 != 0 {
			bin = append(bin, 0)
		}
		off := len(bin)
		bin = append(bin, data...)
		bufferViews = append(bufferViews, jBufferView{ByteOffset: off, ByteLength: len(data)})
		return len(bufferViews) - 1
	}
	addFloats := func(vals []float32, typ string, count int) int {
		raw := make([]byte, len(vals)*4)
		for i, f := range vals {
			binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(f))
		}
		bv := appendView(raw)
		accessors = append(accessors, jAccessor{BufferView: bv, ComponentType: gltfFloat, Count: count, Type: typ})
		return len(accessors) - 1
	}
	addIndices := func(idx []int) int {
		large := false
		for _, v := range idx {
			if v > 0xFFFF {
				large = true
			}
		}
		var raw []byte
		compType := gltfUShort
		if large {
			compType = gltfUInt
			raw = make([]byte, len(idx)*4)
			for i, v := range idx {
				binary.LittleEndian.PutUint32(raw[i*4:], uint32(v))
			}
		} else {
			raw = make([]byte, len(idx)*2)
			for i, v := range idx {
				binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
			}
		}
		bv := appendView(raw)
		accessors = append(accessors, jAccessor{BufferView: bv, ComponentType: compType, Count: len(idx), Type: "SCALAR"})
		return len(accessors) - 1
	}

	type jPrimitive struct {
		Attributes map[string]int `json:"attributes"`
		Indices    *int           `json:"indices,omitempty"`
		Material   *int           `json:"material,omitempty"`
	}
	type jMesh struct {
		Name       string       `json:"name,omitempty"`
		Primitives []jPrimitive `json:"primitives"`
	}
	var meshes []jMesh
	meshIndex := make(map[*meshfile.Mesh]int, mf.NumMeshes())
	matIndex := make(map[*meshfile.Material]int, mf.NumMaterials())
	for i, mat := range mf.Materials() {
		matIndex[mat] = i
	}

	for i, m := range mf.Meshes() {
		attrs := map[string]int{}
		pos := make([]float32, 0, len(m.Vertex)*3)
		for _, v := range m.Vertex {
			pos = append(pos, v.X, v.Y, v.Z)
		}
		attrs["POSITION"] = addFloats(pos, "VEC3", len(m.Vertex))
		if m.HasNormals() {
			n := make([]float32, 0, len(m.Normal)*3)
			for _, v := range m.Normal {
				n = append(n, v.X, v.Y, v.Z)
			}
			attrs["NORMAL"] = addFloats(n, "VEC3", len(m.Normal))
		}
		if m.HasTexcoords() {
			uv := make([]float32, 0, len(m.Texcoord)*2)
			for _, v := range m.Texcoord {
				uv = append(uv, v.X, v.Y)
			}
			attrs["TEXCOORD_0"] = addFloats(uv, "VEC2", len(m.Texcoord))
		}
		if m.HasColors() {
			c := make([]float32, 0, len(m.Color)*4)
			for _, v := range m.Color {
				c = append(c, v.X, v.Y, v.Z, v.W)
			}
			attrs["COLOR_0"] = addFloats(c, "VEC4", len(m.Color))
		}

		idx := make([]int, 0, len(m.Faces)*3)
		for _, f := range m.Faces {
			idx = append(idx, f.V[0], f.V[1], f.V[2])
		}
		indicesAcc := addIndices(idx)

		prim := jPrimitive{Attributes: attrs, Indices: &indicesAcc}
		if mi, ok := matIndex[m.Material()]; ok {
			prim.Material = &mi
		}
		meshIndex[m] = i
		meshes = append(meshes, jMesh{Name: m.Name, Primitives: []jPrimitive{prim}})
	}

	type jPBR struct {
		BaseColorFactor [4]float32 `json:"baseColorFactor"`
		MetallicFactor  float32    `json:"metallicFactor"`
		RoughnessFactor float32    `json:"roughnessFactor"`
	}
	type jMaterial struct {
		Name                 string     `json:"name,omitempty"`
		PbrMetallicRoughness jPBR       `json:"pbrMetallicRoughness"`
		EmissiveFactor       [3]float32 `json:"emissiveFactor,omitempty"`
	}
	var materials []jMaterial
	for _, mat := range mf.Materials() {
		col := mat.Attribute(meshfile.AttrColor).Value
		em := mat.Attribute(meshfile.AttrEmissive).Value
		materials = append(materials, jMaterial{
			Name: mat.Name,
			PbrMetallicRoughness: jPBR{
				BaseColorFactor: [4]float32{col.X, col.Y, col.Z, mat.Attribute(meshfile.AttrAlpha).Value.X},
				MetallicFactor:  mat.Attribute(meshfile.AttrMetallic).Value.X,
				RoughnessFactor: mat.Attribute(meshfile.AttrRoughness).Value.X,
			},
			EmissiveFactor: [3]float32{em.X, em.Y, em.Z},
		})
	}

	type jNode struct {
		Name     string       `json:"name,omitempty"`
		Mesh     *int         `json:"mesh,omitempty"`
		Children []int        `json:"children,omitempty"`
		Matrix   *[16]float32 `json:"matrix,omitempty"`
	}
	nodeIndex := make(map[*meshfile.Node]int, mf.NumNodes())
	for i, n := range mf.Nodes() {
		nodeIndex[n] = i
	}
	var nodes []jNode
	for _, n := range mf.Nodes() {
		jn := jNode{Name: n.Name}
		if len(n.Meshes) > 0 {
			if len(n.Meshes) > 1 {
				slog.Warn("format: gltf: node references multiple meshes, saving only the first", "node", n.Name)
			}
			if mi, ok := meshIndex[n.Meshes[0]]; ok {
				jn.Mesh = &mi
			}
		}
		if !n.Matrix.IsIdentity() {
			var arr [16]float32
			copy(arr[:], n.Matrix[:])
			jn.Matrix = &arr
		}
		for _, c := range n.Children {
			if ci, ok := nodeIndex[c]; ok {
				jn.Children = append(jn.Children, ci)
			}
		}
		nodes = append(nodes, jn)
	}

	var rootIdx []int
	for _, n := range mf.TopNodes() {
		if i, ok := nodeIndex[n]; ok {
			rootIdx = append(rootIdx, i)
		}
	}

	type jBuffer struct {
		ByteLength int    `json:"byteLength"`
		URI        string `json:"uri"`
	}
	doc := struct {
		Asset struct {
			Version string `json:"version"`
		} `json:"asset"`
		Scene       int           `json:"scene"`
		Scenes      []struct {
			Nodes []int `json:"nodes"`
		} `json:"scenes"`
		Nodes       []jNode       `json:"nodes,omitempty"`
		Meshes      []jMesh       `json:"meshes,omitempty"`
		Materials   []jMaterial   `json:"materials,omitempty"`
		Accessors   []jAccessor   `json:"accessors,omitempty"`
		BufferViews []jBufferView `json:"bufferViews,omitempty"`
		Buffers     []jBuffer     `json:"buffers,omitempty"`
	}{
		Scene: 0,
		Scenes: []struct {
			Nodes []int `json:"nodes"`
		}{{Nodes: rootIdx}},
		Nodes:       nodes,
		Meshes:      meshes,
		Materials:   materials,
		Accessors:   accessors,
		BufferViews: bufferViews,
	}
	doc.Asset.Version = "2.0"
	if len(bin) > 0 {
		doc.Buffers = []jBuffer{{
			ByteLength: len(bin),
			URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin),
		}}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("format: gltf: %w", err)
	}
	_, err = h.Write(out)
	return err
}
