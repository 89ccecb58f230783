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

// Package genotype holds bit-packed diploid genotypes for a population of
// samples, and the adapters that build them from per-site calls.
//
// Each sample carries two chromosome copies packed 8 sites per byte.  Bit b
// (least significant first, i.e. 1 << b) of byte k describes 0-based site
// 8*k + b.  A set bit means the copy carries the dominant allele.  Missing
// calls are listed separately, as 1-based site indices in strictly increasing
// order.
package genotype

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
)

// Sample is the packed genotype of one diploid sample.
type Sample struct {
	ID string
	// ChrA and ChrB are the two packed chromosome copies; they must have the
	// same length.
	ChrA []byte
	ChrB []byte
	// Missing lists the 1-based indices of sites without a genotype call, in
	// strictly increasing order.
	Missing []int
}

// ChrLength returns the number of packed bytes per chromosome copy.
func (s *Sample) ChrLength() int {
	return len(s.ChrA)
}

// IsMissing returns true iff 0-based site pos has no genotype call.
func (s *Sample) IsMissing(pos int) bool {
	i := sort.SearchInts(s.Missing, pos+1)
	return i < len(s.Missing) && s.Missing[i] == pos+1
}

// Population is an immutable collection of samples sharing a common site
// count.  Nothing in this module mutates a Population after construction.
type Population struct {
	Samples []Sample
}

// NSample returns the number of samples.
func (p *Population) NSample() int {
	return len(p.Samples)
}

// ChrLength returns the number of packed bytes per chromosome copy, or 0 for
// an empty population.
func (p *Population) ChrLength() int {
	if len(p.Samples) == 0 {
		return 0
	}
	return p.Samples[0].ChrLength()
}

// NSite returns the number of sites covered by the packed copies.
func (p *Population) NSite() int {
	return p.ChrLength() * 8
}

// IDs returns the sample IDs, in order.
func (p *Population) IDs() []string {
	ids := make([]string, len(p.Samples))
	for i := range p.Samples {
		ids[i] = p.Samples[i].ID
	}
	return ids
}

// Validate checks the invariants the distance kernel depends on:
//   - every chromosome copy of every sample has the same length;
//   - every missing index is in [1, NSite()];
//   - every missing list is strictly increasing.
// Violations are reported with kind errors.Precondition.
func (p *Population) Validate() error {
	chrLength := p.ChrLength()
	nSite := chrLength * 8
	for i := range p.Samples {
		s := &p.Samples[i]
		if len(s.ChrA) != chrLength || len(s.ChrB) != chrLength {
			return errors.E(errors.Precondition, fmt.Sprintf("sample %d (%s): chromosome copies have %d and %d bytes, population has %d", i, s.ID, len(s.ChrA), len(s.ChrB), chrLength))
		}
		prev := 0
		for _, idx := range s.Missing {
			if idx < 1 || idx > nSite {
				return errors.E(errors.Precondition, fmt.Sprintf("sample %d (%s): missing site %d outside [1, %d]", i, s.ID, idx, nSite))
			}
			if idx <= prev {
				return errors.E(errors.Precondition, fmt.Sprintf("sample %d (%s): missing sites not strictly increasing (%d after %d)", i, s.ID, idx, prev))
			}
			prev = idx
		}
	}
	return nil
}
