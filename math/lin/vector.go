// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Vector performs 2, 3, and 4 element vector math needed by mesh data:
// positions, normals, tangents, texture coordinates, and colors.

// V2 is a 2 element vector, used for texture coordinates.
type V2 struct {
	X float32
	Y float32
}

// V3 is a 3 element vector. Used for positions, normals, tangents.
type V3 struct {
	X float32
	Y float32
	Z float32
}

// V4 is a 4 element vector. Used for vertex colors and homogeneous points.
type V4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

// Set assigns x, y and sets v, returning v.
func (v *V2) Set(x, y float32) *V2 { v.X, v.Y = x, y; return v }

// Set assigns x, y, z to v, returning v.
func (v *V3) Set(x, y, z float32) *V3 { v.X, v.Y, v.Z = x, y, z; return v }

// Set assigns x, y, z, w to v, returning v.
func (v *V4) Set(x, y, z, w float32) *V4 { v.X, v.Y, v.Z, v.W = x, y, z, w; return v }

// Eq (==) returns true if v and a have identical elements.
func (v *V3) Eq(a *V3) bool { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }

// Aeq (~=) returns true if v and a are almost equal.
func (v *V3) Aeq(a *V3) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z) }

// Add sets v = a + b and returns v.
func (v *V3) Add(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub sets v = a - b and returns v.
func (v *V3) Sub(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Scale sets v = a * s and returns v.
func (v *V3) Scale(a *V3, s float32) *V3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// Dot returns the dot product of v and a.
func (v *V3) Dot(a *V3) float32 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross sets v = a x b and returns v. v must not alias a or b.
func (v *V3) Cross(a, b *V3) *V3 {
	v.X = a.Y*b.Z - a.Z*b.Y
	v.Y = a.Z*b.X - a.X*b.Z
	v.Z = a.X*b.Y - a.Y*b.X
	return v
}

// Len returns the length (magnitude) of v.
func (v *V3) Len() float32 { return Sqrt(v.Dot(v)) }

// Unit normalizes v in place and returns v. A zero-length vector is
// left unchanged.
func (v *V3) Unit() *V3 {
	l := v.Len()
	if l < Epsilon {
		return v
	}
	inv := 1 / l
	v.X, v.Y, v.Z = v.X*inv, v.Y*inv, v.Z*inv
	return v
}

// MultMat transforms v as a position (w=1) by m and returns v.
func (v *V3) MultMat(a *V3, m *M4) *V3 {
	x, y, z := a.X, a.Y, a.Z
	v.X = m[0]*x + m[4]*y + m[8]*z + m[12]
	v.Y = m[1]*x + m[5]*y + m[9]*z + m[13]
	v.Z = m[2]*x + m[6]*y + m[10]*z + m[14]
	return v
}

// MultMatDir transforms v as a direction (w=0, translation ignored) by m
// and returns v.
func (v *V3) MultMatDir(a *V3, m *M4) *V3 {
	x, y, z := a.X, a.Y, a.Z
	v.X = m[0]*x + m[4]*y + m[8]*z
	v.Y = m[1]*x + m[5]*y + m[9]*z
	v.Z = m[2]*x + m[6]*y + m[10]*z
	return v
}
