// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Q is a unit quaternion representing a rotation, used to decompose and
// recompose glTF node TRS transforms. Field order (X, Y, Z, W) matches
// the teacher vu/math/lin.Q and glTF's rotation array layout.
type Q struct {
	X float32
	Y float32
	Z float32
	W float32
}

// QI is the identity quaternion (no rotation).
var QI = &Q{0, 0, 0, 1}

// Set assigns x, y, z, w to q and returns q.
func (q *Q) Set(x, y, z, w float32) *Q {
	q.X, q.Y, q.Z, q.W = x, y, z, w
	return q
}

// Eq returns true if q and r have identical elements.
func (q *Q) Eq(r *Q) bool { return q.X == r.X && q.Y == r.Y && q.Z == r.Z && q.W == r.W }
