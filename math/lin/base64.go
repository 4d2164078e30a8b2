// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// base64.go decodes glTF's embedded "data:...;base64,..." buffer URIs.
// A hand-rolled decoder (rather than encoding/base64) follows spec.md
// component C exactly: it ignores unknown bytes instead of erroring on
// them, and sizes its own output from the valid character count, which
// stdlib's strict decoder does not do.

var b64Table = func() [256]int8 {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// Base64Decode decodes s, ignoring any byte that is not part of the
// base64 alphabet (including '=' padding, which is simply skipped) and
// sizing the returned slice to the number of valid characters seen.
func Base64Decode(s string) []byte {
	var valid []byte
	for i := 0; i < len(s); i++ {
		if b64Table[s[i]] >= 0 {
			valid = append(valid, s[i])
		}
	}
	n := len(valid)
	out := make([]byte, 0, n*3/4+3)
	var buf uint32
	var bits int
	for i := 0; i < n; i++ {
		buf = buf<<6 | uint32(b64Table[valid[i]])
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>uint(bits)))
		}
	}
	return out
}
