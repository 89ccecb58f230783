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
package genotype_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/gtdist/genotype"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

func TestPack(t *testing.T) {
	calls, err := genotype.ParseCalls("0122.0010" + "2")
	assert.NoError(t, err)
	s := genotype.Pack("s1", calls)
	expect.EQ(t, s.ID, "s1")
	// Site b of byte k is bit (1 << b).
	expect.EQ(t, s.ChrA, []byte{0x8e, 0x02})
	expect.EQ(t, s.ChrB, []byte{0x0c, 0x02})
	expect.EQ(t, s.Missing, []int{5})
	expect.EQ(t, s.DosageString(10), "0122.00102")
	// Padding sites decode as HomRec.
	expect.EQ(t, s.Call(15), genotype.HomRec)
}

func TestPackRandom(t *testing.T) {
	nIter := 200
	for iter := 0; iter < nIter; iter++ {
		nSite := 1 + rand.Intn(300)
		calls := make([]genotype.Call, nSite)
		for i := range calls {
			calls[i] = genotype.Call(rand.Intn(4))
		}
		s := genotype.Pack("x", calls)
		expect.EQ(t, s.ChrLength(), (nSite+7)/8)
		if got := s.Calls(nSite); !callsEqual(got, calls) {
			t.Fatalf("Pack/Calls mismatch: got %v, want %v", got, calls)
		}
		pop := genotype.Population{Samples: []genotype.Sample{s}}
		assert.NoError(t, pop.Validate())
	}
}

func callsEqual(a, b []genotype.Call) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseCallsInvalid(t *testing.T) {
	_, err := genotype.ParseCalls("01x")
	expect.True(t, errors.Is(errors.Invalid, err))
	calls, err := genotype.ParseCalls(".N-")
	assert.NoError(t, err)
	expect.EQ(t, calls, []genotype.Call{genotype.Missing, genotype.Missing, genotype.Missing})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		samples []genotype.Sample
		ok      bool
	}{
		{
			name: "empty",
			ok:   true,
		},
		{
			name: "valid",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1, 2}, ChrB: []byte{0, 0}, Missing: []int{1, 16}},
				{ID: "b", ChrA: []byte{0, 0}, ChrB: []byte{0, 0}},
			},
			ok: true,
		},
		{
			name: "differentLengths",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1, 2}, ChrB: []byte{0, 0}},
				{ID: "b", ChrA: []byte{0}, ChrB: []byte{0}},
			},
		},
		{
			name: "copyLengths",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1, 2}, ChrB: []byte{0}},
			},
		},
		{
			name: "zeroIndex",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1}, ChrB: []byte{0}, Missing: []int{0}},
			},
		},
		{
			name: "pastEnd",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1}, ChrB: []byte{0}, Missing: []int{9}},
			},
		},
		{
			name: "unsorted",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1}, ChrB: []byte{0}, Missing: []int{3, 2}},
			},
		},
		{
			name: "duplicate",
			samples: []genotype.Sample{
				{ID: "a", ChrA: []byte{1}, ChrB: []byte{0}, Missing: []int{3, 3}},
			},
		},
	}
	for _, tt := range tests {
		pop := genotype.Population{Samples: tt.samples}
		err := pop.Validate()
		if tt.ok {
			expect.NoError(t, err, tt.name)
		} else {
			expect.True(t, errors.Is(errors.Precondition, err), tt.name)
		}
	}
}

const testTSV = `SAMPLE	GENOTYPES
# comment lines are skipped
s1	0120.2
s2	2221N0
s3	000000
`

func TestReadTSV(t *testing.T) {
	pop, err := genotype.ReadTSV(strings.NewReader(testTSV))
	assert.NoError(t, err)
	expect.EQ(t, pop.NSample(), 3)
	expect.EQ(t, pop.ChrLength(), 1)
	expect.EQ(t, pop.NSite(), 8)
	expect.EQ(t, pop.IDs(), []string{"s1", "s2", "s3"})
	expect.EQ(t, pop.Samples[0].DosageString(6), "0120.2")
	expect.EQ(t, pop.Samples[1].Missing, []int{5})
	assert.NoError(t, pop.Validate())
}

func TestReadTSVErrors(t *testing.T) {
	_, err := genotype.ReadTSV(strings.NewReader("SAMPLE\tGENOTYPES\ns1\t012\ns2\t01\n"))
	expect.NotNil(t, err)
	_, err = genotype.ReadTSV(strings.NewReader("SAMPLE\tGENOTYPES\ns1\t01z\n"))
	expect.NotNil(t, err)
}

func TestReadPathGzip(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	path := filepath.Join(tmpdir, "genotypes.tsv.gz")
	f, err := os.Create(path)
	assert.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testTSV))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, f.Close())

	pop, err := genotype.ReadPath(vcontext.Background(), path)
	assert.NoError(t, err)
	expect.EQ(t, pop.IDs(), []string{"s1", "s2", "s3"})
	expect.EQ(t, pop.Samples[1].DosageString(6), "2221.0")
}
