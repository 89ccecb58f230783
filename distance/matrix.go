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
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
)

// Matrix is a symmetric n x n distance matrix with a zero diagonal.
type Matrix struct {
	n    int
	data []int // row-major n*n array.
}

// newMatrix returns a zeroed n x n matrix.
func newMatrix(n int) *Matrix {
	return &Matrix{
		n:    n,
		data: make([]int, n*n),
	}
}

// N returns the number of rows (and columns).
func (m *Matrix) N() int {
	return m.n
}

// At returns the distance between samples i and j.
func (m *Matrix) At(i, j int) int {
	return m.data[i*m.n+j]
}

// Row returns row i.  The caller must not modify it.
func (m *Matrix) Row(i int) []int {
	return m.data[i*m.n : (i+1)*m.n]
}

// Data returns the row-major backing array.  The caller must not modify it.
func (m *Matrix) Data() []int {
	return m.data
}

// setPair stores d at (i, j) and (j, i).
func (m *Matrix) setPair(i, j, d int) {
	m.data[i*m.n+j] = d
	m.data[j*m.n+i] = d
}

// Checksum returns a seahash of the row-major entries, each encoded as a
// little-endian int64.  Equal matrices have equal checksums regardless of the
// parallelism they were computed with.
func (m *Matrix) Checksum() uint64 {
	h := seahash.New()
	var buf [8]byte
	for _, d := range m.data {
		binary.LittleEndian.PutUint64(buf[:], uint64(d))
		h.Write(buf[:]) // nolint: errcheck
	}
	return h.Sum64()
}

// String returns a string representation of a matrix, one row per line, with
// right-aligned columns.
func (m *Matrix) String() string {
	maxLength := 0
	for _, d := range m.data {
		if l := len(strconv.Itoa(d)); l > maxLength {
			maxLength = l
		}
	}

	lines := make([]string, 0, m.n)
	for i := 0; i < m.n; i++ {
		var parts []string
		for j := 0; j < m.n; j++ {
			parts = append(parts, fmt.Sprintf("%*d", maxLength, m.data[i*m.n+j]))
		}
		lines = append(lines, strings.Join(parts, " | "))
	}
	return strings.Join(lines, "\n")
}
