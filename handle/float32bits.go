// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package handle

import "math"

func math32FromBits(u uint32) float32 { return math.Float32frombits(u) }

func math32Bits(f float32) uint32 { return math.Float32bits(f) }
