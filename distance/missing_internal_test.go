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
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func TestMissingScanner(t *testing.T) {
	tests := []struct {
		name    string
		missing []int
		policy  MissingPolicy
		sims    []byte
		want    []byte
	}{
		{
			name:    "empty",
			missing: nil,
			policy:  MissingMismatch,
			sims:    []byte{0xff, 0x00},
			want:    []byte{0xff, 0x00},
		},
		{
			name:    "forceMatch",
			missing: []int{1, 8, 10},
			policy:  MissingMatch,
			sims:    []byte{0x00, 0x00, 0x00},
			want:    []byte{0x81, 0x02, 0x00},
		},
		{
			name:    "forceMismatch",
			missing: []int{1, 8, 10},
			policy:  MissingMismatch,
			sims:    []byte{0xff, 0xff, 0xff},
			want:    []byte{0x7e, 0xfd, 0xff},
		},
		{
			// The list runs out in the middle of the scan; later windows must be
			// left alone.
			name:    "exhaustedMidScan",
			missing: []int{3},
			policy:  MissingMismatch,
			sims:    []byte{0xff, 0xff, 0xff, 0xff},
			want:    []byte{0xfb, 0xff, 0xff, 0xff},
		},
		{
			name:    "lastSite",
			missing: []int{24},
			policy:  MissingMatch,
			sims:    []byte{0x00, 0x00, 0x00},
			want:    []byte{0x00, 0x00, 0x80},
		},
		{
			name:    "wholeWindow",
			missing: []int{9, 10, 11, 12, 13, 14, 15, 16},
			policy:  MissingMatch,
			sims:    []byte{0x00, 0x00},
			want:    []byte{0x00, 0xff},
		},
	}
	for _, tt := range tests {
		s := newMissingScanner(tt.missing)
		got := make([]byte, len(tt.sims))
		for k, sim := range tt.sims {
			got[k] = s.apply(k, sim, tt.policy)
		}
		assert.Equal(t, tt.want, got, tt.name)
		assert.True(t, s.exhausted(), tt.name)
	}
}

func TestMissingScannerIndependence(t *testing.T) {
	// Both scanners must be applied to every window, even when the first one
	// already touched a different bit of the same byte.
	a := newMissingScanner([]int{1})
	b := newMissingScanner([]int{2})
	sim := a.apply(0, 0xff, MissingMismatch)
	sim = b.apply(0, sim, MissingMismatch)
	expect.EQ(t, sim, byte(0xfc))

	// Overlapping missing sites can't double count.
	a = newMissingScanner([]int{4})
	b = newMissingScanner([]int{4})
	sim = a.apply(0, 0xff, MissingMismatch)
	sim = b.apply(0, sim, MissingMismatch)
	expect.EQ(t, Mismatches(sim), 1)
}

func TestPairFromIndex(t *testing.T) {
	p := 0
	for i := 1; i < 300; i++ {
		for j := 0; j < i; j++ {
			gotI, gotJ := pairFromIndex(p)
			if gotI != i || gotJ != j {
				t.Fatalf("pairFromIndex(%d) = (%d, %d), want (%d, %d)", p, gotI, gotJ, i, j)
			}
			p++
		}
	}
}

func TestParseMissingPolicy(t *testing.T) {
	for _, p := range []MissingPolicy{MissingMatch, MissingMismatch} {
		got, err := ParseMissingPolicy(p.String())
		expect.NoError(t, err)
		expect.EQ(t, got, p)
	}
	_, err := ParseMissingPolicy("sometimes")
	expect.NotNil(t, err)
}
