// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/handle"
)

// LoadMTL parses a Wavefront MTL text stream, adding one
// meshfile.Material per newmtl block. Grounded on the teacher's
// load/mtl.go token-switch shape, generalized from "last material wins"
// to one Material per newmtl and expanded with map_*/Pr/Pm/Ke directives
// spec.md §4.F lists as in-scope.
func LoadMTL(mf *meshfile.MeshFile, h handle.Handle) error {
	r := bufio.NewReader(h)

	var cur *meshfile.Material
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
		key := fields[0]
		args := fields[1:]

		if key == "newmtl" {
			name := "material"
			if len(args) >= 1 {
				name = args[0]
			}
			cur = meshfile.NewMaterial(name)
			mf.AddMaterial(cur)
			continue
		}
		if cur == nil {
			continue
		}
		switch key {
		case "Ka":
			r, g, b := parse3Str(args)
			cur.SetColor3(meshfile.AttrColor, r, g, b)
		case "Kd":
			r, g, b := parse3Str(args)
			cur.SetColor3(meshfile.AttrColor, r, g, b)
		case "Ks":
			r, g, b := parse3Str(args)
			cur.SetColor3(meshfile.AttrSpecular, r, g, b)
		case "Ke":
			r, g, b := parse3Str(args)
			cur.SetColor3(meshfile.AttrEmissive, r, g, b)
		case "Ns":
			ns := parseFloatArg(args, 0)
			cur.SetScalar(meshfile.AttrShininess, ns)
			if ns < 1 {
				cur.SetColor3(meshfile.AttrSpecular, 0, 0, 0)
			}
		case "Ni":
			cur.SetScalar(meshfile.AttrIOR, parseFloatArg(args, 1.5))
		case "Pr":
			cur.SetScalar(meshfile.AttrRoughness, parseFloatArg(args, 0))
		case "Pm":
			cur.SetScalar(meshfile.AttrMetallic, parseFloatArg(args, 0))
		case "d":
			a := parseFloatArg(args, 1)
			cur.SetScalar(meshfile.AttrAlpha, a)
			cur.SetScalar(meshfile.AttrTransmit, 1-a)
		case "Tr":
			// Tr is the (deprecated) inverse of d; only honour it while
			// alpha is still 1, so a preceding "d" below 1 takes priority.
			if cur.Attribute(meshfile.AttrAlpha).Value.X == 1 {
				tr := parseFloatArg(args, 0)
				cur.SetScalar(meshfile.AttrAlpha, 1-tr)
				cur.SetScalar(meshfile.AttrTransmit, tr)
			}
		case "illum":
			// illumination model selector — no attribute slot; ignored.
		case "map_Ka", "map_Kd":
			cur.Attribute(meshfile.AttrColor).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "map_Ks":
			cur.Attribute(meshfile.AttrSpecular).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "map_Ke":
			cur.Attribute(meshfile.AttrEmissive).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "map_Ns":
			cur.Attribute(meshfile.AttrShininess).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "map_Pr":
			cur.Attribute(meshfile.AttrRoughness).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "map_Pm":
			cur.Attribute(meshfile.AttrMetallic).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "map_d":
			cur.Attribute(meshfile.AttrAlpha).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "bump", "map_bump", "map_Bump":
			cur.Attribute(meshfile.AttrBump).Map = parseMapDirective(cur, meshfile.NewTextureMap(), args)
		case "refl":
			// refl is typically repeated once per cubemap face (-type
			// cube_*); accumulate face names into the attribute's
			// existing map instead of overwriting it each time.
			cur.Attribute(meshfile.AttrReflect).Map = parseMapDirective(cur, cur.Attribute(meshfile.AttrReflect).Map, args)
		}
	}
	return nil
}

// cubeFaceTypes maps a "-type" directive's cube-face keyword to the
// TextureMap.Cube index it targets; "-type sphere" and any other
// unrecognised value leave the following filename targeting tm.Name.
var cubeFaceTypes = map[string]int{
	"cube_right":  0,
	"cube_left":   1,
	"cube_top":    2,
	"cube_bottom": 3,
	"cube_front":  4,
	"cube_back":   5,
}

// parseMapDirective parses a "map_*"/"refl" directive's option flags
// (-blendu/-blendv/-clamp/-o/-s/-bm/-type) and trailing filename,
// layering them onto base. -blendu/-blendv and their on/off value are
// skipped: UFilt and VFilt keep base's values. -bm's bump multiplier has no TextureMap
// slot; spec.md §4.F stores it directly in the material's BUMP scalar
// attribute instead. -type's cube-face keyword routes the directive's
// filename into the matching TextureMap.Cube entry rather than Name.
func parseMapDirective(cur *meshfile.Material, base meshfile.TextureMap, args []string) meshfile.TextureMap {
	tm := base
	cubeFace := -1
	i := 0
	for i < len(args) {
		switch args[i] {
		case "-blendu", "-blendv":
			i += 2
		case "-clamp":
			if i+1 < len(args) && strings.EqualFold(args[i+1], "on") {
				tm.UWrap, tm.VWrap = meshfile.Clamp, meshfile.Clamp
			}
			i += 2
		case "-o":
			tm.Offset.X, tm.Offset.Y, tm.Offset.Z = parse3Str(args[i+1:])
			i += 4
		case "-s":
			tm.Scale.X, tm.Scale.Y, tm.Scale.Z = parse3Str(args[i+1:])
			i += 4
		case "-bm":
			cur.SetScalar(meshfile.AttrBump, parseFloatArg(args[i+1:], 1))
			i += 2
		case "-type":
			if i+1 < len(args) {
				if face, ok := cubeFaceTypes[strings.ToLower(args[i+1])]; ok {
					cubeFace = face
				}
			}
			i += 2
		default:
			if cubeFace >= 0 {
				tm.Cube[cubeFace] = args[i]
			} else {
				tm.Name = args[i]
			}
			i++
		}
	}
	return tm
}

func parse3Str(f []string) (x, y, z float32) {
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

func parseFloatArg(args []string, def float32) float32 {
	if len(args) == 0 {
		return def
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return def
	}
	return float32(v)
}

// SaveMTL writes one newmtl block per material in mf to h, in Wavefront
// MTL text form.
func SaveMTL(mf *meshfile.MeshFile, h handle.Handle) error {
	for _, mat := range mf.Materials() {
		c := mat.Attribute(meshfile.AttrColor).Value
		s := mat.Attribute(meshfile.AttrSpecular).Value
		e := mat.Attribute(meshfile.AttrEmissive).Value
		alpha := mat.Attribute(meshfile.AttrAlpha).Value.X
		shin := mat.Attribute(meshfile.AttrShininess).Value.X
		ior := mat.Attribute(meshfile.AttrIOR).Value.X

		if err := handle.Fprintf(h, "newmtl %s\n", mat.Name); err != nil {
			return err
		}
		if err := handle.Fprintf(h, "Ka %g %g %g\n", c.X, c.Y, c.Z); err != nil {
			return err
		}
		if err := handle.Fprintf(h, "Kd %g %g %g\n", c.X, c.Y, c.Z); err != nil {
			return err
		}
		if err := handle.Fprintf(h, "Ks %g %g %g\n", s.X, s.Y, s.Z); err != nil {
			return err
		}
		if e.X != 0 || e.Y != 0 || e.Z != 0 {
			if err := handle.Fprintf(h, "Ke %g %g %g\n", e.X, e.Y, e.Z); err != nil {
				return err
			}
		}
		if err := handle.Fprintf(h, "Ns %g\n", shin); err != nil {
			return err
		}
		if err := handle.Fprintf(h, "Ni %g\n", ior); err != nil {
			return err
		}
		if err := handle.Fprintf(h, "d %g\n", alpha); err != nil {
			return err
		}
		if name := mat.Attribute(meshfile.AttrColor).Map.Name; name != "" {
			if err := handle.Fprintf(h, "map_Kd %s\n", name); err != nil {
				return err
			}
		}
		if name := mat.Attribute(meshfile.AttrBump).Map.Name; name != "" {
			if err := handle.Fprintf(h, "bump %s\n", name); err != nil {
				return err
			}
		}
		if err := handle.Fprintf(h, "\n"); err != nil {
			return err
		}
	}
	return nil
}
