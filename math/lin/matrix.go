// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Matrix provides 4x4 matrix algebra for transform nodes.
//
// Unlike the teacher vu/math/lin package (row-major, explicitly named
// Xx/Xy/... fields, float64), M4 here is a column-major [16]float32 array
// indexed m[col*4+row] — the layout spec.md's node.matrix, glTF's
// node.matrix, and 3DS's MESHMATRIX all already use on disk, so accessor
// and chunk data can be copied into/out of an M4 without reshaping.
type M4 [16]float32

// M4Identity returns a new identity matrix.
func M4Identity() *M4 {
	m := &M4{}
	m.Identity()
	return m
}

// Identity sets m to the identity matrix and returns m.
func (m *M4) Identity() *M4 {
	*m = M4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return m
}

// IsIdentity returns true if m is (almost) the identity matrix.
func (m *M4) IsIdentity() bool {
	id := M4Identity()
	for i := range m {
		if !Aeq(m[i], id[i]) {
			return false
		}
	}
	return true
}

// Eq returns true if m and a are element-wise (almost) equal within
// Epsilon tolerance.
func (m *M4) Eq(a *M4) bool {
	for i := range m {
		if !Aeq(m[i], a[i]) {
			return false
		}
	}
	return true
}

// Set copies a into m and returns m.
func (m *M4) Set(a *M4) *M4 {
	*m = *a
	return m
}

// Mult sets m = a * b (column-vector convention: a transform composed
// with b means "apply b first, then a"). m may alias a and/or b.
func (m *M4) Mult(a, b *M4) *M4 {
	var r M4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	*m = r
	return m
}

// Transpose sets m to the transpose of a and returns m.
func (m *M4) Transpose(a *M4) *M4 {
	var r M4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = a[row*4+col]
		}
	}
	*m = r
	return m
}

// Inverse sets m to the inverse of a and returns true, or returns false
// if a is singular (determinant is zero), in which case m is left unchanged.
func (m *M4) Inverse(a *M4) bool {
	var inv M4
	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	if det == 0 {
		return false
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	*m = inv
	return true
}

// SetTranslate sets m to a pure translation matrix and returns m.
func (m *M4) SetTranslate(t *V3) *M4 {
	m.Identity()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// SetScale sets m to a pure scale matrix and returns m.
func (m *M4) SetScale(s *V3) *M4 {
	m.Identity()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// SetQ sets m to the rotation matrix for quaternion q and returns m.
func (m *M4) SetQ(q *Q) *M4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	m.Identity()
	m[0] = 1 - (yy + zz)
	m[1] = xy + wz
	m[2] = xz - wy
	m[4] = xy - wz
	m[5] = 1 - (xx + zz)
	m[6] = yz + wx
	m[8] = xz + wy
	m[9] = yz - wx
	m[10] = 1 - (xx + yy)
	return m
}

// SetPRS composes m = T * R * S, the TRS decomposition glTF nodes use.
func (m *M4) SetPRS(t *V3, r *Q, s *V3) *M4 {
	var rm, sm, rs M4
	rm.SetQ(r)
	sm.SetScale(s)
	rs.Mult(&rm, &sm)
	var tm M4
	tm.SetTranslate(t)
	return m.Mult(&tm, &rs)
}

// TranslatePart returns the translation column of m.
func (m *M4) TranslatePart() V3 { return V3{m[12], m[13], m[14]} }
