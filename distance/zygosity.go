// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package distance

import (
	"math/bits"

	"github.com/grailbio/base/simd"
)

// Zygosity holds the zygosity state of 8 consecutive sites of one sample.
// Exactly one of the three masks has each bit set.
type Zygosity struct {
	Het    byte // copies differ
	HomDom byte // both copies dominant
	HomRec byte // both copies recessive
}

// NewZygosity derives the zygosity masks of one window from the
// corresponding bytes of the two chromosome copies.
func NewZygosity(c1, c2 byte) Zygosity {
	return Zygosity{
		Het:    c1 ^ c2,
		HomDom: c1 & c2,
		HomRec: ^(c1 | c2),
	}
}

// Similarity returns a byte with bit b set iff z1 and z2 have the same
// zygosity at bit b.
func Similarity(z1, z2 Zygosity) byte {
	return (z1.Het & z2.Het) | (z1.HomDom & z2.HomDom) | (z1.HomRec & z2.HomRec)
}

// Mismatches returns the number of zero bits in a same-zygosity byte.
func Mismatches(sim byte) int {
	return 8 - bits.OnesCount8(sim)
}

// MismatchesInRow returns the total number of zero bits in sims.
func MismatchesInRow(sims []byte) int {
	return 8*len(sims) - simd.Popcnt(sims)
}
