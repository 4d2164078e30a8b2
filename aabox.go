// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshfile

import "github.com/gazed/meshfile/math/lin"

// AABox is an axis-aligned bounding box. A freshly constructed AABox is
// inverted (Vmin = +inf, Vmax = -inf) so that it acts as the identity
// element of "expand by point": expanding an inverted box by any point
// makes that point both the min and the max.
type AABox struct {
	Vmin lin.V3
	Vmax lin.V3
}

const large = 3.4e38 // just under float32 max; mirrors vu/math/lin.Large's role.

// NewAABox returns an inverted (empty) box.
func NewAABox() AABox {
	return AABox{
		Vmin: lin.V3{X: large, Y: large, Z: large},
		Vmax: lin.V3{X: -large, Y: -large, Z: -large},
	}
}

// Inverted reports whether b has never been expanded by a point, i.e.
// it bounds no geometry.
func (b *AABox) Inverted() bool {
	return b.Vmin.X > b.Vmax.X || b.Vmin.Y > b.Vmax.Y || b.Vmin.Z > b.Vmax.Z
}

// ExpandPoint grows b, if necessary, so that it also contains p.
func (b *AABox) ExpandPoint(p *lin.V3) {
	if p.X < b.Vmin.X {
		b.Vmin.X = p.X
	}
	if p.Y < b.Vmin.Y {
		b.Vmin.Y = p.Y
	}
	if p.Z < b.Vmin.Z {
		b.Vmin.Z = p.Z
	}
	if p.X > b.Vmax.X {
		b.Vmax.X = p.X
	}
	if p.Y > b.Vmax.Y {
		b.Vmax.Y = p.Y
	}
	if p.Z > b.Vmax.Z {
		b.Vmax.Z = p.Z
	}
}

// ExpandBox grows b so that it also contains every point of a.
func (b *AABox) ExpandBox(a *AABox) {
	if a.Inverted() {
		return
	}
	b.ExpandPoint(&a.Vmin)
	b.ExpandPoint(&a.Vmax)
}

// Bounds returns (vmin, vmax, true), or a zero value and false if b is
// still inverted (no geometry was ever added).
func (b *AABox) Bounds() (vmin, vmax lin.V3, ok bool) {
	if b.Inverted() {
		return lin.V3{}, lin.V3{}, false
	}
	return b.Vmin, b.Vmax, true
}
