// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestV3Cross(t *testing.T) {
	x := &V3{1, 0, 0}
	y := &V3{0, 1, 0}
	z := &V3{}
	z.Cross(x, y)
	if !z.Eq(&V3{0, 0, 1}) {
		t.Errorf("cross %+v", z)
	}
}

func TestV3Unit(t *testing.T) {
	v := &V3{3, 0, 4}
	v.Unit()
	if !Aeq(v.Len(), 1) {
		t.Errorf("unit length %f", v.Len())
	}
}

func TestM4MultIdentity(t *testing.T) {
	a := M4Identity()
	b := &M4{}
	b.SetTranslate(&V3{1, 2, 3})
	m := &M4{}
	m.Mult(a, b)
	if !m.Eq(b) {
		t.Errorf("identity mult changed matrix: %+v", m)
	}
}

func TestM4InverseRoundtrip(t *testing.T) {
	m := &M4{}
	m.SetTranslate(&V3{1, 2, 3})
	inv := &M4{}
	if ok := inv.Inverse(m); !ok {
		t.Fatal("expected invertible matrix")
	}
	prod := &M4{}
	prod.Mult(m, inv)
	if !prod.IsIdentity() {
		t.Errorf("m * inverse(m) != identity: %+v", prod)
	}
}

func TestM4SetPRSTranslationOnly(t *testing.T) {
	m := &M4{}
	m.SetPRS(&V3{1, 2, 3}, QI, &V3{1, 1, 1})
	want := &M4{}
	want.SetTranslate(&V3{1, 2, 3})
	if !m.Eq(want) {
		t.Errorf("PRS with identity rotation/scale = %+v, want %+v", m, want)
	}
}

func TestBase64DecodeIgnoresPadding(t *testing.T) {
	// "Zm9v" == "foo"
	got := Base64Decode("Zm9v")
	if string(got) != "foo" {
		t.Errorf("decode = %q, want foo", got)
	}
	got = Base64Decode("Zm8=")
	if string(got) != "fo" {
		t.Errorf("decode with padding = %q, want fo", got)
	}
}
